package bom

import (
	"fmt"
	"strconv"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/rust-ffi-checker/crateval/internal/classify"
	"github.com/rust-ffi-checker/crateval/internal/model"
)

const (
	PropStatus       = "crateval:status"
	PropElapsed      = "crateval:elapsed_seconds"
	PropPeakMemoryKB = "crateval:peak_memory_kb"
	PropRunID        = "crateval:run_id"
	PropMode         = "crateval:classify_mode"
	PropError        = "crateval:error"
	PropClassifyErr  = "crateval:classify_error"
)

var severities = map[model.Severity]cdx.Severity{
	model.SeverityHigh:   cdx.SeverityHigh,
	model.SeverityMedium: cdx.SeverityMedium,
	model.SeverityLow:    cdx.SeverityLow,
}

// rater rates vulnerabilities in every classification mode, so a strict run
// still gets a rating for lines it refused to count.
var rater = classify.New(classify.Lenient)

// AppendResults adds a library component for every result and a
// vulnerability for every diagnosis line the analyzer reported for it.
func (b *Builder) AppendResults(results ...model.Result) *Builder {
	for _, res := range results {
		component := crateComponent(res)
		b.AppendComponents(component)

		for i, line := range classify.Lines(res.Diagnostics) {
			if line == "" {
				continue
			}
			b.AppendVulnerabilities(vulnerability(component.BOMRef, i+1, line, rater.Severity(line)))
		}
	}
	return b
}

func crateComponent(res model.Result) cdx.Component {
	name, version := SplitCrate(res.JobID)
	c := cdx.Component{
		BOMRef:  "crate/" + res.JobID,
		Type:    cdx.ComponentTypeLibrary,
		Name:    name,
		Version: version,
	}
	SetProp(&c, PropStatus, string(res.Status()))
	SetProp(&c, PropElapsed, strconv.FormatFloat(res.ElapsedSeconds, 'f', -1, 64))
	SetProp(&c, PropPeakMemoryKB, strconv.FormatInt(res.PeakMemoryKB, 10))
	if res.Err != nil {
		SetProp(&c, PropError, res.Err.Error())
	}
	if res.ClassifyErr != nil {
		SetProp(&c, PropClassifyErr, res.ClassifyErr.Error())
	}
	if version != "" {
		c.PackageURL = fmt.Sprintf("pkg:cargo/%s@%s", name, version)
	}
	return c
}

func vulnerability(ref string, line int, text string, sev model.Severity) cdx.Vulnerability {
	return cdx.Vulnerability{
		BOMRef:      fmt.Sprintf("%s#%d", ref, line),
		ID:          fmt.Sprintf("FFI-%s-%d", strings.TrimPrefix(ref, "crate/"), line),
		Source:      &cdx.Source{Name: "cargo-ffi-checker"},
		Description: text,
		Ratings: &[]cdx.VulnerabilityRating{
			{
				Severity: severities[sev],
				Method:   cdx.ScoringMethodOther,
			},
		},
		Affects: &[]cdx.Affects{
			{Ref: ref},
		},
	}
}

// SplitCrate splits a crate directory name such as "libgit2-sys-0.16.2"
// into the crate name and version. Names without a version suffix are
// returned unchanged with an empty version.
func SplitCrate(id string) (string, string) {
	i := strings.LastIndexByte(id, '-')
	if i <= 0 || i == len(id)-1 {
		return id, ""
	}
	if v := id[i+1]; v < '0' || v > '9' {
		return id, ""
	}
	return id[:i], id[i+1:]
}
