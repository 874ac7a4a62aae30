package pkginfo

import (
	"errors"
	"slices"

	"github.com/meco-pipeline/mecosettings/appfile"
	"github.com/meco-pipeline/mecosettings/request"
)

// FailureSink collects non fatal failures of an environment run.
type FailureSink interface {
	AddFailure(message string)
}

// Policy decides whether a discovered package is activated.
type Policy struct {
	failures FailureSink
}

// NewPolicy returns a Policy reporting manifest errors to failures, which may
// be nil.
func NewPolicy(failures FailureSink) *Policy {
	return &Policy{failures: failures}
}

// ShouldActivate reports whether the package at packageRoot is activated for
// req. A package is skipped when its manifest is missing or broken, when it is
// inactive, or when it does not support the platform or interpreter major
// version of req. Runtime versions are not checked when req carries no
// interpreter version. Otherwise a package listing no applications, or "all", is
// activated, and any other package only for the application it lists.
func (p *Policy) ShouldActivate(packageRoot string, req request.Context) bool {
	m, err := Load(packageRoot)
	if err != nil {
		if !errors.Is(err, ErrManifestMissing) {
			p.fail(err)
		}
		return false
	}

	if !m.Active() {
		return false
	}
	if m.Platforms != nil && !slices.Contains(m.Platforms, req.Platform.String()) {
		return false
	}
	if runtime := req.RuntimeMajorVersion(); runtime != "" && len(m.RuntimeVersions) > 0 &&
		!slices.Contains(m.RuntimeVersions, runtime) {
		return false
	}

	if len(m.Applications) == 0 || slices.Contains(m.Applications, AllApplications) {
		return true
	}

	application, err := TargetApplication(req)
	if err != nil {
		p.fail(err)
		return false
	}
	return slices.Contains(m.Applications, application)
}

// TargetApplication returns the application of the selected app descriptor,
// or "standalone" when no app is selected or the descriptor names none.
func TargetApplication(req request.Context) (string, error) {
	if req.AppFile == "" {
		return request.StandaloneApplication, nil
	}
	d, err := appfile.Load(req.AppFile)
	if err != nil {
		return "", err
	}
	if d.Application == "" {
		return request.StandaloneApplication, nil
	}
	return d.Application, nil
}

func (p *Policy) fail(err error) {
	if p.failures != nil {
		p.failures.AddFailure(err.Error())
	}
}
