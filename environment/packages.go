package environment

import (
	"fmt"

	"github.com/meco-pipeline/mecosettings/appfile"
	"github.com/meco-pipeline/mecosettings/env"
	"github.com/meco-pipeline/mecosettings/paths"
	"github.com/meco-pipeline/mecosettings/pkginfo"
	"github.com/meco-pipeline/mecosettings/request"
)

// Tier names, in package priority order.
const (
	TierReserved              = "reserved"
	TierDevelopment           = "development"
	TierStage                 = "stage"
	TierProjectInternal       = "project-internal"
	TierProjectExternal       = "project-external"
	TierMasterProjectInternal = "master-project-internal"
	TierMasterProjectExternal = "master-project-external"
)

// Tier is a directory packages are collected from.
type Tier struct {
	Name      string
	Root      string
	Versioned bool
}

// ActivatedPackage is a package added to the environment.
type ActivatedPackage struct {
	pkginfo.Package
	Tier string
}

// Tiers returns the active package tiers of req in priority order. The
// project tiers are left out for the master project.
func (a *Assembler) Tiers(req request.Context, layout Layout) ([]Tier, error) {
	var tiers []Tier
	add := func(name, root string, versioned bool) {
		if root != "" {
			tiers = append(tiers, Tier{Name: name, Root: root, Versioned: versioned})
		}
	}

	add(TierReserved, layout.ReservedPackagesPath, false)
	add(TierDevelopment, layout.DevelopmentPackagesPath, false)
	add(TierStage, layout.StagePackagesPath, false)

	p := req.Platform
	if layout.ProjectName != paths.MasterProjectName {
		project, err := a.projectVariables(p, layout.ProjectName)
		if err != nil {
			return nil, err
		}
		add(TierProjectInternal, project.internal, true)
		add(TierProjectExternal, project.external, true)
	}

	master, err := a.projectVariables(p, paths.MasterProjectName)
	if err != nil {
		return nil, err
	}
	add(TierMasterProjectInternal, master.internal, true)
	add(TierMasterProjectExternal, master.external, true)
	return tiers, nil
}

// CollectPackages walks the tiers of req and adds the global env of every
// activated package. A package name found in several tiers is taken from the
// first one. When an app is selected its global env class is added for each
// activated package too.
func (a *Assembler) CollectPackages(req request.Context, layout Layout, c *env.Container) ([]ActivatedPackage, error) {
	tiers, err := a.Tiers(req, layout)
	if err != nil {
		return nil, err
	}

	var app *appfile.Descriptor
	if layout.AppFilePath != "" {
		if app, err = appfile.Load(layout.AppFilePath); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	var activated []ActivatedPackage
	for _, tier := range tiers {
		packages, err := pkginfo.Discover(tier.Root, tier.Versioned)
		if err != nil {
			return nil, err
		}
		for _, pkg := range packages {
			if seen[pkg.Name] {
				continue
			}
			seen[pkg.Name] = true

			if a.Policy != nil && !a.Policy.ShouldActivate(pkg.Root, req) {
				continue
			}
			if err := env.AddGlobalEnv(c, env.ClassPackage, req.Platform, pkg.Root, "", ""); err != nil {
				return nil, err
			}
			if app != nil && app.GlobalEnvClassName != "" {
				err := env.AddGlobalEnv(c, app.GlobalEnvClassName, req.Platform, pkg.Root, app.FolderName, app.Version)
				if err != nil {
					a.fail(fmt.Sprintf("%s: %v", pkg.Name, err))
				}
			}
			activated = append(activated, ActivatedPackage{Package: pkg, Tier: tier.Name})
		}
	}
	return activated, nil
}

func (a *Assembler) fail(message string) {
	if a.Failures != nil {
		a.Failures.AddFailure(message)
	}
}
