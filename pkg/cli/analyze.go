package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/cli/config"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	memorysvc "github.com/mindmate-app/mindmate/pkg/service/memory"
	"github.com/mindmate-app/mindmate/pkg/service/prompt"
	"github.com/mindmate-app/mindmate/pkg/usecase"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdAnalyze() *cli.Command {
	var userIDs []string
	var allUsers bool
	var appCfg config.App
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "user",
			Usage:       "User ID to analyze (repeatable)",
			Sources:     cli.EnvVars("MINDMATE_ANALYZE_USER"),
			Destination: &userIDs,
		},
		&cli.BoolFlag{
			Name:        "all-users",
			Usage:       "Analyze every known user",
			Destination: &allUsers,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Regenerate character reports from journals and goals",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if len(userIDs) == 0 && !allUsers {
				return goerr.New("either --user or --all-users is required")
			}
			if len(userIDs) > 0 && allUsers {
				return goerr.New("--user and --all-users are mutually exclusive")
			}

			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load app config")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required for analysis")
			}

			memSvc, err := memorysvc.New(repo.Memory(), llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize memory service")
			}

			uc := usecase.New(repo, llmClient, memSvc, prompt.New(appCfg.Name), appCfg.UseCaseOptions()...)

			var targets []types.UserID
			if allUsers {
				targets, err = repo.Profile().ListUserIDs(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to list users")
				}
				if len(targets) == 0 {
					fmt.Println("no users found")
					return nil
				}
			} else {
				for _, id := range userIDs {
					targets = append(targets, types.UserID(id))
				}
			}

			results := uc.RefreshAll(ctx, targets)

			okLabel := color.New(color.FgGreen).Sprint("OK")
			failLabel := color.New(color.FgRed).Sprint("FAIL")

			var failed int
			for _, result := range results {
				if result.Err != nil {
					failed++
					fmt.Printf("%s  %s: %s\n", failLabel, result.UserID, result.Err)
					continue
				}
				fmt.Printf("%s    %s\n", okLabel, result.UserID)
			}

			fmt.Printf("analyzed %d users, %d failed\n", len(results), failed)
			if failed > 0 {
				return goerr.New("analysis failed for some users", goerr.V("failed", failed))
			}
			return nil
		},
	}
}
