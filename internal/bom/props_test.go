package bom_test

import (
	"testing"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/rust-ffi-checker/crateval/internal/bom"
	"github.com/stretchr/testify/require"
)

func TestSetProp(t *testing.T) {
	t.Parallel()

	var c cdx.Component
	bom.SetProp(&c, bom.PropStatus, "")
	require.Nil(t, c.Properties)

	bom.SetProp(&c, bom.PropStatus, "timeout")
	bom.SetProp(&c, bom.PropElapsed, "0")
	bom.SetProp(&c, bom.PropStatus, "ok")
	require.Equal(t, []cdx.Property{
		{Name: bom.PropStatus, Value: "ok"},
		{Name: bom.PropElapsed, Value: "0"},
	}, *c.Properties)
}
