package protein

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/garyellow/protein-linebot-go/internal/lineutil"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// LINE only fetches HTTPS images and rejects URLs over its length limit.
	if err := v.RegisterValidation("line_image_url", func(fl validator.FieldLevel) bool {
		u := fl.Field().String()
		return strings.HasPrefix(u, "https://") && utf8.RuneCountInString(u) <= lineutil.MaxImageURLLength
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateProfile checks a profile against LINE API limits and its own
// internal consistency.
func ValidateProfile(p Profile) error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			errs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.Join(errs...)
		}
		return err
	}
	return nil
}

// LoadProfile reads and validates a YAML profile file.
func LoadProfile(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("open profile: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeProfile(f)
}

// DecodeProfile parses a YAML profile. Unknown keys are rejected so typos
// in trigger sections do not silently disable a rule.
func DecodeProfile(r io.Reader) (Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if err := ValidateProfile(p); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %q: %w", p.Name, err)
	}
	return p, nil
}
