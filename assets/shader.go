package assets

import (
	"errors"

	"github.com/gogpu/naga"
)

// validateShader parses, lowers and validates WGSL so a broken shader is
// reported at startup with a source location rather than as an opaque
// pipeline creation failure.
func validateShader(src string) error {
	ast, err := naga.Parse(src)
	if err != nil {
		return err
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return err
	}
	issues, err := naga.Validate(module)
	if err != nil {
		return err
	}
	errs := make([]error, 0, len(issues))
	for i := range issues {
		errs = append(errs, &issues[i])
	}
	return errors.Join(errs...)
}
