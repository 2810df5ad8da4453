package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	assert.Regexp(t, `^\d+\.\d+\.\d+$`, Current().String())
}

func TestPrintLicenses(t *testing.T) {
	var buffer strings.Builder
	PrintLicenses(&buffer)

	for _, license := range Licenses {
		assert.Contains(t, buffer.String(), license.ModuleName+":\n  "+license.LicenseName+"\n  "+license.Link+"\n")
	}
}
