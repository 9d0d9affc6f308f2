package bom

import cdx "github.com/CycloneDX/cyclonedx-go"

// SetProp upserts the property name of c. Empty values are not stored.
func SetProp(c *cdx.Component, name, value string) {
	if value == "" {
		return
	}
	if c.Properties == nil {
		c.Properties = &[]cdx.Property{{Name: name, Value: value}}
		return
	}
	props := *c.Properties
	for i := range props {
		if props[i].Name == name {
			props[i].Value = value
			return
		}
	}
	*c.Properties = append(props, cdx.Property{Name: name, Value: value})
}
