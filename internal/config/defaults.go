// Package config provides configuration handling for jsongen.
package config

const (
	// DefaultCapability is the canonical identifier of the marker a type
	// embeds to request a generated serializer.
	DefaultCapability = "jsongen/jsonser.Serializable"

	// DefaultWriter is the sink type the generated method accepts.
	DefaultWriter = "jsongen/jsonser.TextWriter"
)

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		MethodName:   "Serialize",
		UnitSuffix:   ".JsonSerializable",
		Indent:       "    ",
		ExportedOnly: false,
	}
}
