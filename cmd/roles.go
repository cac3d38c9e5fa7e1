package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the known target roles and their required skills",
	Run: func(_ *cobra.Command, _ []string) {
		zlog, err := newLogger()
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		config, err := getConfig()
		if err != nil {
			zlog.Fatal("getting a config", zap.Error(err))
		}

		lex, err := loadLexicon(config)
		if err != nil {
			zlog.Fatal("loading lexicon", zap.Error(err))
		}

		for _, name := range lex.Roles() {
			required, _ := lex.Required(name)
			marker := " "
			if name == lex.DefaultRole() {
				marker = "*"
			}
			fmt.Printf("%s %-20s %s\n", marker, name, strings.Join(required, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}
