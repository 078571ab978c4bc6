package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"toolchest/internal/capability"
	"toolchest/internal/catalog"
	"toolchest/internal/envx"
	"toolchest/internal/logx"
	"toolchest/internal/paths"
	"toolchest/internal/policy"
	"toolchest/internal/reconcile"
	"toolchest/internal/trace"
)

// session bundles everything a command needs for one run: the catalog
// and policy loaded once, the capability snapshot taken once, and the
// reconcile service wired to the live host. Commands never re-read
// configuration after setup.
type session struct {
	Paths    paths.AppPaths
	Catalog  *catalog.Catalog
	Policy   policy.Policy
	Caps     capability.Capabilities
	Detector *capability.Detector
	Service  *reconcile.Service
	Logger   *log.Logger
	Tracer   *trace.Tracer

	closer io.Closer
}

func newSession(cmd *cobra.Command) (*session, error) {
	pp, err := paths.Resolve(catalogDir, policyFile)
	if err != nil {
		return nil, err
	}

	exists, err := paths.DirExists(pp.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("stat catalog dir: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("catalog directory does not exist: %s", pp.CatalogDir)
	}
	if err := pp.EnsureStateDirs(); err != nil {
		return nil, err
	}

	logger, runID, closer, err := logx.New(pp)
	if err != nil {
		return nil, err
	}
	logger.Printf("toolchest %s: catalog=%s policy=%s", cmd.Name(), pp.CatalogDir, pp.PolicyFile)

	cat, err := catalog.Load(pp.CatalogDir)
	if err != nil {
		closer.Close()
		return nil, err
	}
	pol, err := policy.Load(pp.PolicyFile)
	if err != nil {
		closer.Close()
		return nil, err
	}
	logger.Printf("run %s: %d catalog entries, strategy=%s allowApt=%v",
		runID, len(cat.Tools), pol.Strategy(), pol.AllowApt)

	env := envx.OS{}
	runner := envx.CmdRunner{}
	det := capability.NewDetector(env, runner)
	caps := det.Snapshot(cmd.Context())

	tracer := trace.New(cmd.OutOrStdout(), logger)
	svc := reconcile.NewService(cat, pol, caps, det, runner, env, tracer, logger)
	svc.Timeout = execTimeout

	return &session{
		Paths:    pp,
		Catalog:  cat,
		Policy:   pol,
		Caps:     caps,
		Detector: det,
		Service:  svc,
		Logger:   logger,
		Tracer:   tracer,
		closer:   closer,
	}, nil
}

func (s *session) Close() {
	if s.closer != nil {
		s.closer.Close()
	}
}
