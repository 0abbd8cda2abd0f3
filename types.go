package yamlbind

// DecodeOpt bundles parsing and decoding options. When several are passed
// the last one wins.
type DecodeOpt struct {
	// MaxDepth limits list/map nesting; 0 means unlimited.
	MaxDepth int
	// MaxBytes rejects larger inputs before tokenizing; 0 means unlimited.
	MaxBytes int64
	// Driver overrides the process-wide YAML driver for this call.
	Driver YAMLDriver
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) == 0 {
		return DecodeOpt{}
	}
	return opts[len(opts)-1]
}

func (o DecodeOpt) driver() YAMLDriver {
	if o.Driver != nil {
		return o.Driver
	}
	return CurrentYAMLDriver()
}
