package models

// Password length bounds accepted by the generator.
const (
	MinGeneratedPasswordLength     = 8
	MaxGeneratedPasswordLength     = 20
	DefaultGeneratedPasswordLength = 12
)

// GeneratorOptions describes the constraints for a generated password.
type GeneratorOptions struct {
	Length     int
	UseSpecial bool
	UseNumbers bool
	UseLower   bool
	UseUpper   bool
}

// DefaultGeneratorOptions returns the options the create form starts with:
// twelve characters drawn from every character class.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:     DefaultGeneratedPasswordLength,
		UseSpecial: true,
		UseNumbers: true,
		UseLower:   true,
		UseUpper:   true,
	}
}

// AnyClass reports whether at least one character class is enabled.
func (o GeneratorOptions) AnyClass() bool {
	return o.UseSpecial || o.UseNumbers || o.UseLower || o.UseUpper
}
