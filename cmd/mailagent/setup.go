package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const configTemplate = `# mailagent configuration
openai:
  # Or set the OPENAI_API_KEY environment variable.
  api_key: ""
  base_url: "https://openrouter.ai/api/v1"
  model: "openai/gpt-4-32k"

mail:
  lookback_days: 3
  credentials_file: "credentials.json"
  token_file: "token.json"

# Descriptions the classifier uses to disambiguate the three categories.
criteria:
  need_reply: "directly addressed, question, or complaint"
  might_reply: "general request where user is in CC"
  no_reply: "no response needed"

reply:
  style: "You are a professional assistant. Respond politely and concisely in HTML format. Preserve paragraph formatting."

log:
  jsonl_path: "email_rag_log.jsonl"
  csv_path: "email_rag_log.csv"
  # Set to a file path to also mirror records into a queryable SQLite database.
  sqlite_path: ""
`

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a starter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", configPath)
		}
		if err := os.WriteFile(configPath, []byte(configTemplate), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", configPath, err)
		}
		fmt.Printf("Wrote %s. Fill in your API key and Gmail credentials, then run 'mailagent run'.\n", configPath)
		return nil
	},
}
