package templating

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-docx/internal/style"
	"github.com/jonathan/resume-docx/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		_, ok := style.ParseHexColor(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	return v
}

// repair validates every section, the page and the sidebar layout, resetting
// each failing field to its default. It returns one skip per reset field.
func repair(tpl *types.Template) []types.FieldSkip {
	var skips []types.FieldSkip
	for i := range tpl.Sections {
		skips = append(skips, resetInvalid(&tpl.Sections[i], types.SectionConfig{}, fmt.Sprintf("sections[%d].", i))...)
	}
	skips = append(skips, resetInvalid(&tpl.Page, types.DefaultStyleConfig(), "page.")...)

	if sb, ok := tpl.Layout.Variant().(types.Sidebar); ok {
		skips = append(skips, resetInvalid(&sb, types.DefaultSidebar(), "layout.")...)
		tpl.Layout.Layout = sb
	}
	return skips
}

// resetInvalid validates *target and copies the matching field of def over
// every field that fails.
func resetInvalid[T any](target *T, def T, prefix string) []types.FieldSkip {
	err := validate.Struct(target)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []types.FieldSkip{{Field: strings.TrimSuffix(prefix, "."), Err: err}}
	}

	dst := reflect.ValueOf(target).Elem()
	src := reflect.ValueOf(def)
	skips := make([]types.FieldSkip, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.StructField()
		if f := dst.FieldByName(name); f.IsValid() && f.CanSet() {
			f.Set(src.FieldByName(name))
		}
		skips = append(skips, types.FieldSkip{
			Field: prefix + fe.Field(),
			Err:   fmt.Errorf("value %v failed %q validation", fe.Value(), tagWithParam(fe)),
		})
	}
	return skips
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
