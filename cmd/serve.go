package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		rt := newApplication(ctx)
		defer rt.Close()

		address := viper.GetString("server.address")
		srv := server.New(address, rt.service, rt.assistant, rt.logger)

		rt.logger.Info("starting the career-navigator api",
			zap.String("version", version),
			zap.String("address", address),
			zap.Int("subscribers", rt.hub.Len()),
		)

		srv.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", server.DefaultAddress, "address to listen on")
	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}
