// Package modelfile reads and writes HMM model definitions as JSON or YAML.
package modelfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"gopkg.in/yaml.v3"

	"github.com/bulidiriba/Hidden-Markov-Model/engine"
)

// Format is a model file encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// File is the on-disk shape of a model definition.
type File struct {
	States       []string    `json:"states" yaml:"states" validate:"required,unique,dive,required"`
	Symbols      []string    `json:"symbols" yaml:"symbols" validate:"required,unique,dive,required"`
	Initial      []float64   `json:"initial" yaml:"initial" validate:"required,dive,gte=0"`
	Transition   [][]float64 `json:"transition" yaml:"transition" validate:"required,dive,required,dive,gte=0"`
	Emission     [][]float64 `json:"emission" yaml:"emission" validate:"required,dive,required,dive,gte=0"`
	Observations []string    `json:"observations,omitempty" yaml:"observations,omitempty" validate:"omitempty,dive,required"`
}

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("modelfile: unsupported extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
}

// Read loads and validates a model file.
func Read(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modelfile: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes and validates a model definition.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("modelfile: decode %s: %w", format, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Encode writes f to w in the given format.
func Encode(w io.Writer, f *File, format Format) error {
	if format == YAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("modelfile: encode yaml: %w", err)
		}
		return enc.Close()
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("modelfile: encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Validate checks required fields and that no entry is negative. Shapes, the
// upper bound of entries and row sums are checked by the engine when the model
// is built, within engine.Tolerance.
func (f *File) Validate() error {
	return ValidateStruct(f)
}

// ValidateStruct validates any struct carrying validate tags, such as a
// request that embeds File. Field names in messages follow the json tags.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("modelfile: %w", err)
	}
	return nil
}

// Model builds the engine model described by f.
func (f *File) Model() (*engine.Model, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return engine.NewModel(f.States, f.Symbols, f.Initial, f.Transition, f.Emission)
}

// FromModel converts an engine model back to its file shape.
func FromModel(m *engine.Model, observations []string) *File {
	return &File{
		States:       m.States.Labels(),
		Symbols:      m.Symbols.Labels(),
		Initial:      append([]float64(nil), m.Initial...),
		Transition:   copyRows(m.Transition),
		Emission:     copyRows(m.Emission),
		Observations: observations,
	}
}

// Messages returns human-readable validation messages contained in err, or nil.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return msgs
}

func copyRows(src [][]float64) [][]float64 {
	dst := make([][]float64, len(src))
	for i, row := range src {
		dst[i] = append([]float64(nil), row...)
	}
	return dst
}
