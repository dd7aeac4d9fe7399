package hospital

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bindingOnce sync.Once

// ConfigureBinding makes gin report validation errors with JSON field names
// and decode free-form numbers as json.Number, so record values reach the
// prompt as written. It must run before the first request is bound.
func ConfigureBinding() {
	bindingOnce.Do(func() {
		binding.EnableDecoderUseNumber = true
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonFieldName)
		}
	})
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// fieldNames turns validator errors into paths like "doctors[0].id".
func fieldNames(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		ns := fe.Namespace()
		if _, rest, ok := strings.Cut(ns, "."); ok {
			ns = rest
		}
		out = append(out, ns)
	}
	return out
}
