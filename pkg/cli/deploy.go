package cli

import (
	"context"

	"github.com/secmon-lab/analytics-agent/pkg/adapter/agentengine"
	"github.com/secmon-lab/analytics-agent/pkg/adapter/storage"
	"github.com/secmon-lab/analytics-agent/pkg/agents/root"
	"github.com/secmon-lab/analytics-agent/pkg/cli/config"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	deploysvc "github.com/secmon-lab/analytics-agent/pkg/service/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/service/notifier"
	"github.com/secmon-lab/analytics-agent/pkg/utils/dryrun"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// deployClients opens the remote clients of the deploy command. The returned
// closer is always non-nil.
type deployClients func(ctx context.Context, opts *deploy.Options) (interfaces.BucketClient, interfaces.AgentEngineClient, func(), error)

var newDeployClients deployClients = func(ctx context.Context, opts *deploy.Options) (interfaces.BucketClient, interfaces.AgentEngineClient, func(), error) {
	clientOpts := []option.ClientOption{option.WithQuotaProject(opts.ProjectID)}

	admin, err := storage.NewAdmin(ctx, clientOpts...)
	if err != nil {
		return nil, nil, func() {}, err
	}

	engines, err := agentengine.New(ctx, opts.Location, clientOpts)
	if err != nil {
		admin.Close(ctx)
		return nil, nil, func() {}, err
	}

	return admin, engines, func() { admin.Close(ctx) }, nil
}

func cmdDeploy() *cli.Command {
	var (
		cloud      config.Cloud
		sandboxCfg config.Sandbox
		opts       deploy.Options
		rootModel  string
		dryRun     bool
	)

	flags := joinFlags(
		cloud.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "bucket",
				Usage:       "GCS staging bucket (default: <project>-analytics-agent-staging)",
				Category:    "Deploy",
				Sources:     cli.EnvVars("GOOGLE_CLOUD_STORAGE_BUCKET"),
				Destination: &opts.Bucket,
			},
			&cli.StringFlag{
				Name:        "resource_id",
				Usage:       "Reasoning engine ID or full resource name (required with --delete)",
				Category:    "Deploy",
				Destination: &opts.ResourceID,
			},
			&cli.BoolFlag{
				Name:        "create",
				Usage:       "Create a new agent",
				Category:    "Deploy",
				Destination: &opts.Create,
			},
			&cli.BoolFlag{
				Name:        "delete",
				Usage:       "Delete an existing agent",
				Category:    "Deploy",
				Destination: &opts.Delete,
			},
			&cli.StringFlag{
				Name:        "package",
				Usage:       "Path of the built agent package",
				Category:    "Deploy",
				Value:       deploy.DefaultPackageFile,
				Destination: &opts.PackagePath,
			},
			&cli.StringFlag{
				Name:        "display-name",
				Usage:       "Display name of the created agent",
				Category:    "Deploy",
				Value:       deploy.DefaultDisplayName,
				Destination: &opts.DisplayName,
			},
			&cli.StringFlag{
				Name:        "root-model",
				Usage:       "Model of the root agent recorded in the manifest",
				Category:    "Deploy",
				Value:       types.DefaultModel.String(),
				Sources:     cli.EnvVars(root.ModelEnv),
				Destination: &rootModel,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Validate and print what would be done without changing remote resources",
				Category:    "Deploy",
				Destination: &dryRun,
			},
		},
		sandboxCfg.Flags(),
	)

	return &cli.Command{
		Name:  "deploy",
		Usage: "Create or delete the agent on Vertex AI Agent Engine",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)
			console := notifier.NewConsole(stdout, stderr)
			ctx = console.Bind(dryrun.With(ctx, dryRun))

			opts.ProjectID = cloud.ProjectID()
			opts.Location = cloud.Location()

			// Checked here as well so that nothing remote is opened for bad input.
			if _, err := opts.Validate(); err != nil {
				console.Errorf("%s", err.Error())
				return err
			}

			rootCfg := root.DefaultConfig()
			rootCfg.Model = rootModel
			manifest := root.Manifest(rootCfg, sandboxCfg.AgentConfig().Spec())

			buckets, engines, closer, err := newDeployClients(ctx, &opts)
			defer closer()
			if err != nil {
				console.Errorf("failed to set up clients: %s", err.Error())
				return err
			}

			logger.Debug("deploy manifest", "root", manifest.Root.Name, "analytics_model", sandboxCfg.AgentConfig().Model)

			svc := deploysvc.New(buckets, engines)
			if err := svc.Run(ctx, &opts, manifest); err != nil {
				console.Errorf("%s", err.Error())
				return err
			}
			return nil
		},
	}
}
