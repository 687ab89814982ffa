package datasource

import (
	"bytes"
	_ "embed"

	"github.com/vanderheijden86/netscope/pkg/loader"
	"github.com/vanderheijden86/netscope/pkg/model"
)

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns a fresh copy of the built-in explorer network.
func Sample() *model.Graph {
	g, err := loader.Parse(bytes.NewReader(sampleYAML), loader.ParseOptions{
		Format:         loader.FormatYAML,
		WarningHandler: func(string) {},
	})
	if err != nil {
		// the embedded document is fixed at build time
		panic("datasource: invalid embedded sample: " + err.Error())
	}
	return g
}

// SampleYAML returns the embedded sample document.
func SampleYAML() []byte {
	return bytes.Clone(sampleYAML)
}
