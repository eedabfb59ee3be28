package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = e.cfg.Server.Addr
		}

		s := e.store
		srv := api.New(api.Options{
			Collections:   s.CollectionRepo(),
			Items:         s.ItemRepo(),
			Events:        s.EventRepo(),
			Stats:         e.stats(),
			DefaultTarget: e.cfg.Session.DefaultTarget,
			Seed:          e.cfg.Session.Seed,
		})
		return srv.ListenAndServe(cmd.Context(), addr, e.cfg.Server.ReadTimeout, e.cfg.Server.WriteTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:8484)")
}
