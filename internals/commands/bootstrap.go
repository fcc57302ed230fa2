package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	database "campusevents_backend/internals/databases"
	"campusevents_backend/internals/features/platform/bootstrap/dto"
	"campusevents_backend/internals/features/platform/bootstrap/service"
	"campusevents_backend/internals/logger"
)

var bootstrapReq dto.BootstrapRequest
var bootstrapLogo string

// bootstrapCmd runs the same first-run service as POST /api/bootstrap.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the first college and its admin (headless installs)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		defer logger.Sync()

		req := bootstrapReq
		if bootstrapLogo != "" {
			req.College.Logo = &bootstrapLogo
		}
		if req.Admin.Password == "" {
			req.Admin.Password = os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
		}

		db, err := connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		res, err := service.New(db, cfg.BcryptCost).Bootstrap(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "college %s (%s) created, admin %s <%s>\n",
			res.College.CollegeName, res.College.CollegeCode, res.Admin.UserID, res.Admin.UserEmail)
		return nil
	},
}

func init() {
	f := bootstrapCmd.Flags()
	f.StringVar(&bootstrapReq.College.Name, "college-name", "", "college display name")
	f.StringVar(&bootstrapReq.College.Code, "college-code", "", "college code students register with")
	f.StringVar(&bootstrapLogo, "college-logo", "", "logo URL")
	f.StringVar(&bootstrapReq.Admin.Name, "admin-name", "", "admin display name")
	f.StringVar(&bootstrapReq.Admin.Email, "admin-email", "", "admin login email")
	f.StringVar(&bootstrapReq.Admin.Password, "admin-password", "", "admin password (or BOOTSTRAP_ADMIN_PASSWORD)")
	for _, name := range []string{"college-name", "college-code", "admin-name", "admin-email"} {
		_ = bootstrapCmd.MarkFlagRequired(name)
	}
}
