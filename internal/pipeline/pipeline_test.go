package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/cratekit/internal/action"
	"github.com/opmodel/cratekit/internal/config"
	oerrors "github.com/opmodel/cratekit/internal/errors"
	"github.com/opmodel/cratekit/internal/fsops"
	"github.com/opmodel/cratekit/internal/output"
	"github.com/opmodel/cratekit/internal/templates"
	"github.com/opmodel/cratekit/internal/testutil"
	"github.com/opmodel/cratekit/internal/topology"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

const fixedBackupSuffix = ".backup.20250314T150926Z"

func demoConfig() config.Config {
	return config.Config{
		Root:        "/work/demo",
		Name:        "demo",
		Kind:        config.KindLibrary,
		Topology:    config.TopologySingle,
		Edition:     "2021",
		License:     "MIT",
		Description: config.DefaultDescription,
	}
}

type fixture struct {
	fs   billy.Filesystem
	init *testutil.FakeInitializer
	vcs  *testutil.FakeVCS
	env  *testutil.FakeEnvironment
	out  *bytes.Buffer
}

func newFixture() *fixture {
	fs := memfs.New()
	return &fixture{
		fs:   fs,
		init: &testutil.FakeInitializer{FS: fs},
		vcs:  &testutil.FakeVCS{FS: fs},
		env:  &testutil.FakeEnvironment{},
		out:  &bytes.Buffer{},
	}
}

func (f *fixture) run(t *testing.T, cfg config.Config) (output.RunReport, error) {
	t.Helper()
	var exec fsops.Executor = fsops.NewReal(f.fs)
	if cfg.DryRun {
		exec = fsops.NewSimulated(f.fs)
	}
	rep := output.NewReporter(output.ReporterOptions{Out: f.out, Err: f.out, Verbose: cfg.Verbose})
	p := NewPipeline(cfg, Options{
		Executor:    exec,
		Initializer: f.init,
		VCS:         f.vcs,
		Environment: f.env,
		Reporter:    rep,
		Clock:       func() time.Time { return fixedNow },
	})
	return p.Run(context.Background())
}

func kinds(report output.RunReport) map[action.Kind]int {
	out := map[action.Kind]int{}
	for _, a := range report.Actions {
		out[a.Kind]++
	}
	return out
}

func TestScenarioSingleLibraryOnEmptyDirectory(t *testing.T) {
	f := newFixture()

	report, err := f.run(t, demoConfig())
	require.NoError(t, err)
	assert.Equal(t, oerrors.ExitSuccess, oerrors.ExitCodeFromError(err))

	for _, p := range []string{
		"README.md",
		".gitignore",
		"LICENSE",
		"Cargo.toml",
		"src/lib.rs",
		"tests/integration_test.rs",
		"discovery/Cargo.toml",
		"discovery/src/lib.rs",
	} {
		assert.True(t, testutil.Exists(f.fs, p), p)
	}
	assert.Contains(t, testutil.ReadFile(t, f.fs, "src/lib.rs"), templates.SmokeTestMarker)
	assert.Contains(t, testutil.ReadFile(t, f.fs, "README.md"), "# demo")

	assert.Zero(t, report.Summary.Failed)
	assert.Zero(t, report.Summary.Skipped)
	assert.Equal(t, len(report.Actions), report.Summary.Created)
	assert.False(t, testutil.Exists(f.fs, ".github"), "ci is off by default")
	assert.Empty(t, f.vcs.Steps, "git is off by default")
}

func TestScenarioRerunIsAllSkipped(t *testing.T) {
	f := newFixture()
	cfg := demoConfig()
	cfg.WithCI = true
	cfg.WithGit = true

	_, err := f.run(t, cfg)
	require.NoError(t, err)
	before := testutil.Snapshot(t, f.fs)

	report, err := f.run(t, cfg)
	require.NoError(t, err)

	for _, a := range report.Actions {
		assert.Equal(t, action.Skipped, a.Kind, a.String())
	}
	assert.Equal(t, before, testutil.Snapshot(t, f.fs))
	assert.Len(t, f.init.Calls(), 2, "units are initialized on the first run only")
}

func TestScenarioDryRunForceWithExistingReadme(t *testing.T) {
	f := newFixture()
	testutil.WriteFile(t, f.fs, "README.md", "original readme\n")
	cfg := demoConfig()
	cfg.DryRun = true
	cfg.Force = true

	report, err := f.run(t, cfg)
	require.NoError(t, err)

	assert.Equal(t, "original readme\n", testutil.ReadFile(t, f.fs, "README.md"))
	assert.True(t, report.DryRun)

	var readme []string
	for _, a := range report.Actions {
		if a.Path == "README.md" {
			readme = append(readme, a.String())
		}
	}
	require.Len(t, readme, 2)
	assert.Equal(t, "would back up README.md to README.md"+fixedBackupSuffix, readme[0])
	assert.Equal(t, "would write README.md", readme[1])
	assert.Contains(t, f.out.String(), "[dry-run] would back up README.md")
}

func TestDryRunPurity(t *testing.T) {
	seed := func(fs billy.Filesystem, t *testing.T) {
		testutil.WriteFile(t, fs, "README.md", "mine\n")
		testutil.WriteFile(t, fs, "Cargo.toml", "[package]\nname = \"demo\"\n")
		testutil.WriteFile(t, fs, "src/lib.rs", "pub fn f() {}\n")
	}

	for _, topo := range []config.Topology{config.TopologySingle, config.TopologyWorkspace} {
		for _, force := range []bool{false, true} {
			for _, tests := range []bool{false, true} {
				name := string(topo)
				if force {
					name += "/force"
				}
				if tests {
					name += "/tests"
				}
				t.Run(name, func(t *testing.T) {
					for _, seeded := range []bool{false, true} {
						f := newFixture()
						if seeded {
							seed(f.fs, t)
						}
						cfg := demoConfig()
						cfg.Kind = config.KindBinary
						cfg.Topology = topo
						cfg.Force = force
						cfg.WithTests = tests
						cfg.WithCI = true
						cfg.WithGit = true
						cfg.DryRun = true
						before := testutil.Snapshot(t, f.fs)

						report, err := f.run(t, cfg)

						assert.Equal(t, before, testutil.Snapshot(t, f.fs))
						assert.Empty(t, f.init.Calls())
						assert.Empty(t, f.vcs.Steps)
						if topo == config.TopologyWorkspace && seeded && !force {
							// The seeded package manifest cannot serve as the workspace root.
							require.ErrorIs(t, err, oerrors.ErrAction)
							assert.Equal(t, 1, report.Summary.Failed)
							for _, a := range report.Actions {
								assert.False(t, strings.HasPrefix(a.Path, config.MembersDir), a.String())
							}
							continue
						}
						require.NoError(t, err)
						for _, a := range report.Actions {
							assert.Contains(t, []action.Kind{action.Simulated, action.Skipped}, a.Kind, a.String())
						}
					}
				})
			}
		}
	}
}

// decisions reduces a report to the per-path sequence of decisions, so a
// dry run and a real run over the same tree can be compared.
func decisions(report output.RunReport) map[string][]string {
	out := map[string][]string{}
	for _, a := range report.Actions {
		var d string
		switch a.Kind {
		case action.Created:
			d = "change"
		case action.BackedUp:
			d = "back up"
		case action.Skipped:
			d = "skip"
		case action.Simulated:
			d = "change"
			if strings.HasPrefix(a.Detail, "back up ") {
				d = "back up"
			}
		default:
			d = a.Kind.String()
		}
		out[a.Path] = append(out[a.Path], d)
	}
	return out
}

func TestDryRunMatchesRealRun(t *testing.T) {
	for _, topo := range []config.Topology{config.TopologySingle, config.TopologyWorkspace} {
		t.Run(string(topo), func(t *testing.T) {
			cfg := demoConfig()
			cfg.Topology = topo
			cfg.WithTests = true
			cfg.WithCI = true

			seed := newFixture()
			_, err := seed.run(t, cfg)
			require.NoError(t, err)
			tree := testutil.Snapshot(t, seed.fs)

			cfg.Force = true
			realRun := newFixture()
			testutil.Restore(t, realRun.fs, tree)
			realReport, err := realRun.run(t, cfg)
			require.NoError(t, err)

			cfg.DryRun = true
			dryRun := newFixture()
			testutil.Restore(t, dryRun.fs, tree)
			dryReport, err := dryRun.run(t, cfg)
			require.NoError(t, err)

			assert.Equal(t, tree, testutil.Snapshot(t, dryRun.fs))
			assert.Equal(t, decisions(realReport), decisions(dryReport))
		})
	}
}

func TestWorkspaceOverPackageManifestCreatesNoMembers(t *testing.T) {
	f := newFixture()
	testutil.WriteFile(t, f.fs, "Cargo.toml", "[package]\nname = \"legacy\"\n")
	cfg := demoConfig()
	cfg.Topology = config.TopologyWorkspace

	report, err := f.run(t, cfg)
	require.Error(t, err)

	assert.Equal(t, oerrors.ExitGeneralError, oerrors.ExitCodeFromError(err))
	assert.Equal(t, 1, report.Summary.Failed)
	assert.False(t, testutil.Exists(f.fs, config.MembersDir))
	assert.Empty(t, f.init.Calls())
	assert.Equal(t, "[package]\nname = \"legacy\"\n", testutil.ReadFile(t, f.fs, "Cargo.toml"))
}

func TestBackupCorrectness(t *testing.T) {
	f := newFixture()
	testutil.WriteFile(t, f.fs, "README.md", "original readme\n")
	cfg := demoConfig()
	cfg.Force = true

	_, err := f.run(t, cfg)
	require.NoError(t, err)

	assert.Contains(t, testutil.ReadFile(t, f.fs, "README.md"), "# demo")
	assert.Equal(t, "original readme\n", testutil.ReadFile(t, f.fs, "README.md"+fixedBackupSuffix))

	backups := 0
	for p := range testutil.Snapshot(t, f.fs) {
		if strings.HasPrefix(p, "README.md.backup.") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)
}

func TestTopologyExclusivity(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		f := newFixture()
		_, err := f.run(t, demoConfig())
		require.NoError(t, err)

		declares, err := topology.DeclaresWorkspace([]byte(testutil.ReadFile(t, f.fs, "Cargo.toml")))
		require.NoError(t, err)
		assert.False(t, declares)
	})

	t.Run("workspace", func(t *testing.T) {
		f := newFixture()
		cfg := demoConfig()
		cfg.Topology = config.TopologyWorkspace

		report, err := f.run(t, cfg)
		require.NoError(t, err)

		manifestAt, firstUnitAt := -1, -1
		for i, a := range report.Actions {
			if a.Path == topology.ManifestPath && manifestAt == -1 {
				manifestAt = i
			}
			if strings.HasPrefix(a.Path, config.MembersDir+"/") && firstUnitAt == -1 {
				firstUnitAt = i
			}
		}
		require.NotEqual(t, -1, manifestAt)
		require.NotEqual(t, -1, firstUnitAt)
		assert.Less(t, manifestAt, firstUnitAt)

		members, err := topology.WorkspaceMembers([]byte(testutil.ReadFile(t, f.fs, "Cargo.toml")))
		require.NoError(t, err)
		assert.Equal(t, []string{"crates/*"}, members)
	})
}

func TestMissingToolchainIsFatal(t *testing.T) {
	for _, dryRun := range []bool{false, true} {
		f := newFixture()
		f.env.Missing = true
		cfg := demoConfig()
		cfg.DryRun = dryRun

		report, err := f.run(t, cfg)
		require.Error(t, err)

		assert.Equal(t, oerrors.ExitEnvironmentError, oerrors.ExitCodeFromError(err))
		var stepErr *StepError
		require.True(t, errors.As(err, &stepErr))
		assert.Equal(t, StepEnvironment, stepErr.Step)
		assert.Empty(t, report.Actions)
		assert.Empty(t, testutil.Snapshot(t, f.fs))
	}
}

func TestFailFastStopsPipeline(t *testing.T) {
	f := newFixture()
	f.init.Err = errors.New("cargo exploded")
	cfg := demoConfig()
	cfg.WithCI = true
	cfg.WithGit = true

	report, err := f.run(t, cfg)
	require.Error(t, err)

	assert.ErrorIs(t, err, oerrors.ErrAction)
	assert.Equal(t, oerrors.ExitGeneralError, oerrors.ExitCodeFromError(err))
	assert.Equal(t, 1, report.Summary.Failed)
	assert.True(t, testutil.Exists(f.fs, "README.md"), "earlier steps are not rolled back")
	assert.False(t, testutil.Exists(f.fs, ".github/workflows/ci.yml"))
	assert.Empty(t, f.vcs.Steps)
	assert.Equal(t, action.Failed, report.Actions[len(report.Actions)-1].Kind)
}

func TestCIAndVCS(t *testing.T) {
	f := newFixture()
	cfg := demoConfig()
	cfg.WithCI = true
	cfg.WithGit = true

	report, err := f.run(t, cfg)
	require.NoError(t, err)

	assert.Contains(t, testutil.ReadFile(t, f.fs, ".github/workflows/ci.yml"), "cargo test --workspace")
	assert.Equal(t, []string{
		"init .",
		"add .",
		"commit .: Initial commit (scaffolded by cratekit)",
	}, f.vcs.Steps)

	last := report.Actions[len(report.Actions)-1]
	assert.Equal(t, ".git", last.Path)
	assert.Equal(t, action.Created, last.Kind)
}

func TestVCSSkippedWhenRepositoryExists(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.fs.MkdirAll(".git", 0o755))
	cfg := demoConfig()
	cfg.WithGit = true

	report, err := f.run(t, cfg)
	require.NoError(t, err)

	assert.Empty(t, f.vcs.Steps)
	last := report.Actions[len(report.Actions)-1]
	assert.Equal(t, action.Skipped, last.Kind)
}

func TestVCSFailure(t *testing.T) {
	f := newFixture()
	f.vcs.Err = errors.New("no space left on device")
	cfg := demoConfig()
	cfg.WithGit = true

	_, err := f.run(t, cfg)
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepVCS, stepErr.Step)
	assert.Contains(t, err.Error(), "no space left on device")
}

func TestCancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(demoConfig(), Options{
		Executor:    fsops.NewReal(f.fs),
		Initializer: f.init,
		Environment: f.env,
	})
	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.env.Calls)
}
