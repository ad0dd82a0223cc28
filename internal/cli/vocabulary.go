package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/storage"
)

func init() {
	vocabCmd := &cobra.Command{
		Use:   "vocabulary",
		Short: "Inspect or publish the model vocabulary",
	}
	vocabCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the vocabulary artifact",
		Run: func(cmd *cobra.Command, args []string) {
			if err := writeVocabulary(os.Stdout, engine.DefaultVocabulary()); err != nil {
				exitErr("encode vocabulary", err)
			}
		},
	})
	vocabCmd.AddCommand(&cobra.Command{
		Use:   "publish",
		Short: "Upload the vocabulary artifact to object storage for the training pipeline",
		Run:   runPublishVocabulary,
	})

	RootCmd.AddCommand(vocabCmd)
}

type vocabularyArtifact struct {
	engine.Vocabulary
	Fingerprint string `json:"fingerprint"`
}

func vocabularyJSON(v engine.Vocabulary) ([]byte, error) {
	return json.MarshalIndent(vocabularyArtifact{Vocabulary: v, Fingerprint: v.Fingerprint()}, "", "  ")
}

func writeVocabulary(w io.Writer, v engine.Vocabulary) error {
	raw, err := vocabularyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", raw)
	return err
}

func runPublishVocabulary(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	store, err := storage.NewS3Storage(cmd.Context(), cfg.S3, log)
	if err != nil {
		exitErr("init storage", err)
	}
	v := engine.DefaultVocabulary()
	raw, err := vocabularyJSON(v)
	if err != nil {
		exitErr("encode vocabulary", err)
	}
	if err := store.PutObject(cmd.Context(), cfg.S3.VocabularyKey, raw, "application/json"); err != nil {
		exitErr("publish vocabulary", err)
	}
	fmt.Printf(`{"ok":true,"key":%q,"version":%q,"fingerprint":%q}`+"\n", cfg.S3.VocabularyKey, v.Version, v.Fingerprint())
}
