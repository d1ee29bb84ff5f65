package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/waterlog/infra/store"
)

var (
	queryJSONL  string
	querySQLite string
	querySince  time.Duration
	queryFilter store.Query
	queryAsJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Read records back from a jsonl or sqlite store",
	Args:  cobra.NoArgs,
	RunE:  runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryJSONL, "jsonl", "", "path of a jsonl store")
	f.StringVar(&querySQLite, "sqlite", "", "path of a sqlite store")
	f.DurationVar(&querySince, "since", 0, "only records newer than this")
	f.StringVar(&queryFilter.Log, "log", "", "log name")
	f.StringVar(&queryFilter.Tag, "tag", "", "tag")
	f.StringVar(&queryFilter.Contains, "contains", "", "message substring")
	f.IntVar(&queryFilter.Limit, "limit", 0, "maximum number of records")
	f.BoolVar(&queryAsJSON, "json", false, "print records as JSON lines")
	queryCmd.MarkFlagsMutuallyExclusive("jsonl", "sqlite")
	queryCmd.MarkFlagsOneRequired("jsonl", "sqlite")
	rootCmd.AddCommand(queryCmd)
}

func openStore() (store.Store, error) {
	switch {
	case querySQLite != "" && queryJSONL != "":
		return nil, fmt.Errorf("--jsonl and --sqlite are exclusive")
	case querySQLite == "" && queryJSONL == "":
		return nil, fmt.Errorf("one of --jsonl or --sqlite is required")
	}
	if querySQLite != "" {
		return store.NewSQLiteStore(querySQLite)
	}
	return store.NewJSONLStore(queryJSONL, store.JSONLOptions{})
}

func runQuery(cmd *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	q := queryFilter
	if querySince > 0 {
		q.Start = time.Now().Add(-querySince)
	}
	recs, err := s.Query(context.Background(), q)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for _, r := range recs {
		if queryAsJSON {
			err = enc.Encode(r)
		} else {
			_, err = fmt.Fprintf(out, "%s %s [%s] %s\n", r.Time.Format(time.RFC3339), r.Log, r.Tag, r.Message)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
