package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-batches/internal/config"
	"github.com/mind-engage/mindengage-batches/internal/export"
	"github.com/mind-engage/mindengage-batches/internal/logging"
	"github.com/mind-engage/mindengage-batches/internal/plan"
	"github.com/mind-engage/mindengage-batches/internal/roster"
	"github.com/mind-engage/mindengage-batches/internal/storage"
	"github.com/mind-engage/mindengage-batches/internal/topics"
)

type rootOptions struct {
	topicsFile string
	topics     []string
	logLevel   string
	logFormat  string
}

type planOptions struct {
	weeks  int
	out    string
	xlsx   bool
	high   int
	medium int
	low    int
}

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()
	ro := &rootOptions{}

	root := &cobra.Command{
		Use:           "batchplan",
		Short:         "Batch students by score tier and rotate weekly topics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&ro.topicsFile, "topics", cfg.TopicsFile, "YAML topics file (list or {topics: [...]})")
	root.PersistentFlags().StringArrayVar(&ro.topics, "topic", nil, "topic title, repeatable; overrides --topics")
	root.PersistentFlags().StringVar(&ro.logLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	root.PersistentFlags().StringVar(&ro.logFormat, "log-format", cfg.LogFormat, "text|json")

	root.AddCommand(newPlanCmd(ro, cfg), newTopicsCmd(ro))
	return root
}

// resolver falls back to the built-in course topics only when no topics
// file is configured; an empty file stays empty and fails the run.
func (ro *rootOptions) resolver() topics.Resolver {
	return topics.Resolver{File: ro.topicsFile, UseDefaults: ro.topicsFile == ""}
}

func (ro *rootOptions) explicitTopics() []topics.Topic {
	out := make([]topics.Topic, 0, len(ro.topics))
	for _, t := range ro.topics {
		out = append(out, topics.Topic{Title: t})
	}
	return out
}

func newTopicsCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Print the topic list a plan would use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := ro.resolver().Resolve(cmd.Context(), ro.explicitTopics())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, t := range list {
				if t.Description != "" {
					fmt.Fprintf(w, "%d. %s (%s)\n", i+1, t.Title, t.Description)
				} else {
					fmt.Fprintf(w, "%d. %s\n", i+1, t.Title)
				}
			}
			return nil
		},
	}
}

func newPlanCmd(ro *rootOptions, cfg config.Config) *cobra.Command {
	po := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan FILE...",
		Short: "Build batches and the weekly topic table from roster files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), ro.logLevel, ro.logFormat)
			return runPlan(cmd.Context(), cmd.OutOrStdout(), logger, ro, po, args)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&po.weeks, "weeks", "w", cfg.PlanWeeks, "number of weeks to schedule")
	f.StringVarP(&po.out, "out", "o", "./out", "output directory")
	f.BoolVar(&po.xlsx, "xlsx", false, "also write batches.xlsx")
	f.IntVar(&po.high, "high", plan.DefaultComposition.High, "High students per batch")
	f.IntVar(&po.medium, "medium", plan.DefaultComposition.Medium, "Medium students per batch")
	f.IntVar(&po.low, "low", plan.DefaultComposition.Low, "Low students per batch")
	return cmd
}

func runPlan(ctx context.Context, stdout io.Writer, logger logging.Logger, ro *rootOptions, po *planOptions, files []string) error {
	if po.weeks < 1 {
		return &plan.ConfigurationError{Field: "weeks", Reason: "must be a positive integer"}
	}
	list, err := ro.resolver().Resolve(ctx, ro.explicitTopics())
	if err != nil {
		return err
	}

	var sources []roster.Source
	var unreadable []string
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			logger.Warn("file rejected", "file", name, "error", err)
			unreadable = append(unreadable, name)
			continue
		}
		sources = append(sources, roster.Source{Name: filepath.Base(name), Data: data})
	}

	svc := plan.NewService(plan.WithLogger(logger), plan.WithCacheTTL(0))
	p, err := svc.Generate(ctx, plan.Request{
		Sources:     sources,
		Topics:      list,
		Weeks:       po.weeks,
		Composition: plan.Composition{High: po.high, Medium: po.medium, Low: po.low},
	})
	if err != nil {
		return err
	}

	bs, err := storage.NewFSStore(po.out)
	if err != nil {
		return err
	}
	written, err := writeOutputs(bs, p, po.xlsx)
	if err != nil {
		return err
	}

	printSummary(stdout, p, unreadable)
	for _, key := range written {
		u, _ := bs.SignedURL(key)
		fmt.Fprintf(stdout, "wrote %s\n", u)
	}
	return nil
}

func writeOutputs(bs storage.BlobStore, p *plan.Plan, withXLSX bool) ([]string, error) {
	var table bytes.Buffer
	if err := export.WriteAssignmentsCSV(&table, p); err != nil {
		return nil, err
	}
	archive, err := export.BuildBatchArchive(p.Batches)
	if err != nil {
		return nil, err
	}
	outputs := []struct {
		name string
		data []byte
	}{
		{"student_batch_topics.csv", table.Bytes()},
		{"batches.zip", archive},
	}
	if withXLSX {
		wb, err := export.BuildBatchWorkbook(p)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, struct {
			name string
			data []byte
		}{"batches.xlsx", wb})
	}

	keys := make([]string, 0, len(outputs))
	for _, o := range outputs {
		key, err := bs.Put(p.ID+"/"+o.name, bytes.NewReader(o.data))
		if err != nil {
			return keys, fmt.Errorf("write %s: %w", o.name, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func printSummary(w io.Writer, p *plan.Plan, unreadable []string) {
	fmt.Fprintf(w, "plan %s: %d students in %d batches over %d weeks (%s)\n",
		p.ID, p.StudentCount(), len(p.Batches), p.Weeks, strings.Join(topics.Titles(p.Topics), ", "))
	for _, name := range unreadable {
		fmt.Fprintf(w, "rejected file %s: unreadable\n", name)
	}
	if p.Report == nil {
		return
	}
	for _, f := range p.Report.RejectedFiles() {
		fmt.Fprintf(w, "rejected file %s: %v\n", f.Name, f.Err)
	}
	for _, e := range p.Report.RowErrors {
		fmt.Fprintf(w, "rejected row: %v\n", e)
	}
	for _, warn := range p.Report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}
