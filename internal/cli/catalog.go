package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devinpereira/Flexin/internal/catalog"
	"github.com/devinpereira/Flexin/internal/repository/mongo"
	"github.com/devinpereira/Flexin/internal/service"
)

func init() {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate or import the exercise catalog",
	}

	var file string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file for duplicate or empty ids",
		Run: func(cmd *cobra.Command, args []string) {
			c, err := catalog.LoadFile(file)
			if err != nil {
				exitErr("validate catalog", err)
			}
			fmt.Printf(`{"ok":true,"entries":%d}`+"\n", c.Len())
		},
	}
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert a catalog file into MongoDB, keeping the file order",
		Run: func(cmd *cobra.Command, args []string) {
			runCatalogImport(cmd, file)
		},
	}
	for _, c := range []*cobra.Command{validateCmd, importCmd} {
		c.Flags().StringVar(&file, "file", "", "Catalog JSON file")
		_ = c.MarkFlagRequired("file")
		catalogCmd.AddCommand(c)
	}

	RootCmd.AddCommand(catalogCmd)
}

func runCatalogImport(cmd *cobra.Command, file string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	parsed, err := catalog.LoadFile(file)
	if err != nil {
		exitErr("read catalog", err)
	}

	client, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		exitErr("connect mongodb", err)
	}
	defer func() { _ = mongo.DisconnectDB(client) }()
	db := client.Database(cfg.Database.Name)

	if err := mongo.EnsureIndexes(cmd.Context(), db); err != nil {
		log.Warn("Failed to ensure indexes", "error", err)
	}
	current, _ := catalog.New(nil)
	svc := service.NewCatalogService(current, mongo.NewMongoCatalogRepository(db), log)
	changed, err := svc.Import(cmd.Context(), parsed.Entries())
	if err != nil {
		exitErr("import catalog", err)
	}
	fmt.Printf(`{"ok":true,"entries":%d,"changed":%d}`+"\n", parsed.Len(), changed)
}
