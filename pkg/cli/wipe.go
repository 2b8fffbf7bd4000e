package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/cli/config"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	memorysvc "github.com/mindmate-app/mindmate/pkg/service/memory"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdWipe() *cli.Command {
	var userID string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Usage:       "User ID whose vector memories are deleted (required)",
			Required:    true,
			Destination: &userID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "wipe",
		Usage: "Delete all vector memories of one user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// No LLM needed to delete
			memSvc, err := memorysvc.New(repo.Memory(), nil)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize memory service")
			}

			if err := memSvc.Wipe(ctx, types.UserID(userID)); err != nil {
				return goerr.Wrap(err, "failed to wipe user memory")
			}

			fmt.Printf("%s wiped memories of %s\n", color.New(color.FgGreen).Sprint("OK"), userID)
			return nil
		},
	}
}
