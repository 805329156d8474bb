package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirkon/spanweave/internal/config"
	"github.com/sirkon/spanweave/internal/logging"
	"github.com/sirkon/spanweave/internal/weave"
)

type globalFlags struct {
	config string
}

func newRootCommand() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "spanweave",
		Short: "Wrap methods into OpenTelemetry spans",
		Long: `spanweave rewrites Go sources so that every selected method runs inside
a tracing span. Files and methods are selected by a configuration read from
--config or from the .spanweave.yaml, .spanweave.yml or .spanweave.json closest
to each package. Logging follows the configuration of the first path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.config, "config", "", "path to the configuration file")

	root.AddCommand(
		newRewriteCommand(&flags),
		newCheckCommand(&flags),
		newConfigCommand(&flags),
	)
	return root
}

// configPath returns the file given with --config or the closest configuration
// above dir. An empty path means defaults.
func (f *globalFlags) configPath(dir string) (string, error) {
	if f.config != "" {
		return f.config, nil
	}
	path, err := config.Find(dir)
	if err != nil {
		return "", fmt.Errorf("look for configuration: %w", err)
	}
	return path, nil
}

// loadConfig reads the configuration for dir.
func (f *globalFlags) loadConfig(dir string) (*config.Config, error) {
	path, err := f.configPath(dir)
	if err != nil {
		return nil, err
	}
	return readConfig(path)
}

func readConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// weavers hands out a Weaver per configuration file, so every package is
// woven with the configuration closest to it.
type weavers struct {
	flags *globalFlags
	opts  []weave.Option

	lock   sync.Mutex
	byPath map[string]*weave.Weaver
}

func newWeavers(flags *globalFlags, opts ...weave.Option) *weavers {
	return &weavers{
		flags:  flags,
		opts:   opts,
		byPath: map[string]*weave.Weaver{},
	}
}

// forDir returns the Weaver for a package directory.
func (w *weavers) forDir(dir string) (*weave.Weaver, error) {
	path, err := w.flags.configPath(dir)
	if err != nil {
		return nil, err
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if res, ok := w.byPath[path]; ok {
		return res, nil
	}
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	res := weave.New(cfg, w.opts...)
	w.byPath[path] = res
	return res, nil
}

// setup loads the configuration of the first path and builds a logger from
// it. Packages are still woven with their own closest configuration.
func (f *globalFlags) setup(paths []string) (*config.Config, *zap.Logger, error) {
	dir := "."
	if len(paths) > 0 {
		dir = paths[0]
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			dir = filepath.Dir(dir)
		}
	}

	cfg, err := f.loadConfig(dir)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logging.New(cfg.LogLevel(), cfg.Debug()), nil
}

func defaultJobs() int {
	return runtime.GOMAXPROCS(0)
}
