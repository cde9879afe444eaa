package toolmap

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"

	"stackline.dev/spm/pkg/compiler"
	"stackline.dev/spm/pkg/miniplan"
	"stackline.dev/spm/pkg/pkgid"
)

func newPlanWithExe(name pkgid.PackageName, exe pkgid.ExeName) *miniplan.Plan {
	plan := miniplan.New(compiler.Version{})
	info := miniplan.NewPackageInfo(pkgid.Version{}, nil)
	info.Exes.Add(exe)
	plan.Packages[name] = info
	return plan
}

func TestBuild_MapsExeToProvider(t *testing.T) {
	plan := newPlanWithExe("happy", "happy")
	m := Build(plan)

	providers := m.Providers("happy")
	assert.True(t, providers.Contains(pkgid.PackageName("happy")))
	assert.Equal(t, 1, providers.Cardinality())
}

func TestProviders_UnknownToolReturnsEmptySet(t *testing.T) {
	m := Build(miniplan.New(compiler.Version{}))
	providers := m.Providers("nonexistent")
	assert.Equal(t, 0, providers.Cardinality())
}

func TestExpand_UnionsAcrossMultipleTools(t *testing.T) {
	plan := miniplan.New(compiler.Version{})
	happyInfo := miniplan.NewPackageInfo(pkgid.Version{}, nil)
	happyInfo.Exes.Add(pkgid.ExeName("happy"))
	plan.Packages["happy-pkg"] = happyInfo

	alexInfo := miniplan.NewPackageInfo(pkgid.Version{}, nil)
	alexInfo.Exes.Add(pkgid.ExeName("alex"))
	plan.Packages["alex-pkg"] = alexInfo

	m := Build(plan)
	tools := mapset.NewThreadUnsafeSet[pkgid.ToolName]("happy", "alex")
	expanded := m.Expand(tools)

	assert.True(t, expanded.Contains(pkgid.PackageName("happy-pkg")))
	assert.True(t, expanded.Contains(pkgid.PackageName("alex-pkg")))
	assert.Equal(t, 2, expanded.Cardinality())
}

func TestBuild_NoIdentityEntry(t *testing.T) {
	plan := miniplan.New(compiler.Version{})
	plan.Packages["mypkg"] = miniplan.NewPackageInfo(pkgid.Version{}, nil)

	m := Build(plan)
	providers := m.Providers(pkgid.ToolName("mypkg"))
	assert.Equal(t, 0, providers.Cardinality())
}
