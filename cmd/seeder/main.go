// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/relevit"
	"github.com/poiesic/relevit/ai"
	"github.com/poiesic/relevit/ai/openai"
	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/seed"
	"github.com/poiesic/relevit/storage/badger"
)

var tenantPassages = []string{
	"The steering committee approved the revised project budget in the April session.",
	"Work package 4.2 slipped two weeks after the vendor missed the integration milestone.",
	"The risk register lists supplier insolvency as the highest-impact open risk.",
	"Change request CR-118 adds a second staging environment to the delivery scope.",
	"The quality gate for release 2.3 requires a passing regression suite and sign-off.",
	"Earned value for March shows a cost performance index of 0.94 against plan.",
	"The procurement team shortlisted three vendors for the data platform contract.",
	"Sprint 14 closed with eleven of thirteen committed stories accepted.",
	"The migration runbook was rehearsed end to end in the disaster recovery drill.",
	"Stakeholder interviews surfaced conflicting expectations about the reporting cadence.",
	"The resource plan assumes two additional engineers joining in the third quarter.",
	"Defect density dropped by a third after the static analysis gate was introduced.",
	"The contingency reserve stands at eight percent of the remaining budget.",
	"Interface specifications for the billing system were frozen at the design review.",
	"The pilot rollout covers two regions before the general availability decision.",
	"Lessons learned from the previous phase were folded into the onboarding pack.",
	"The communication plan routes all external announcements through the PMO.",
	"Acceptance criteria for the data migration include a reconciliation report.",
	"The schedule baseline was rebaselined once, after the scope change in February.",
	"Overtime last month concentrated in the integration test team.",
}

var sharedPassages = []string{
	"A cost baseline is the approved version of the time-phased project budget.",
	"Schedule variance compares earned value to planned value at a status date.",
	"A risk breakdown structure organizes risks by source category.",
	"Quality assurance audits process adherence; quality control inspects deliverables.",
	"The critical path is the longest sequence of dependent activities in the schedule.",
	"A change control board evaluates, approves, or rejects change requests.",
	"Rolling wave planning elaborates near-term work in detail and far-term work at a higher level.",
	"A work breakdown structure decomposes the total scope into manageable components.",
	"Float is the amount of time an activity can slip without delaying the project finish.",
	"Earned value management integrates scope, schedule, and cost measurements.",
	"A responsibility assignment matrix maps work packages to accountable roles.",
	"Reserve analysis distinguishes contingency reserves from management reserves.",
	"Fast tracking overlaps activities normally done in sequence; crashing adds resources.",
	"A baseline may only change through the formal change control process.",
	"Variance at completion forecasts the difference between budget and estimate at completion.",
}

var (
	seedFileName = flag.String("src", "", "file of seed passages, one per line")
	asShared     = flag.Bool("shared", false, "load the -src file into the shared index")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// loadBatched reads from a source iterator and loads passages in batches.
func loadBatched(ctx context.Context, loader *seed.Loader, source iter.Seq[string], tag core.SourceTag, origin map[string]string, batchSize int) error {
	batch := make([]string, 0, batchSize)

	for line := range source {
		if line == "" {
			continue
		}
		batch = append(batch, line)
		if len(batch) == batchSize {
			if err := loader.Load(ctx, tag, origin, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := loader.Load(ctx, tag, origin, batch...); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	backend, err := badger.OpenBackend("./passage_db", false)
	if err != nil {
		panic(err)
	}
	defer backend.Close()

	tenantIndex, err := badger.NewPassageIndex(backend, relevit.TenantScope)
	if err != nil {
		panic(err)
	}
	sharedIndex, err := badger.NewPassageIndex(backend, relevit.SharedScope)
	if err != nil {
		panic(err)
	}

	embedder, err := openai.NewEmbedder(ai.DefaultConfig())
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	if *seedFileName != "" {
		index, tag := tenantIndex, core.SourceTenant
		if *asShared {
			index, tag = sharedIndex, core.SourceShared
		}
		loader, err := seed.NewLoader(index, embedder)
		if err != nil {
			panic(err)
		}
		defer loader.Release()

		source, err := linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
		origin := map[string]string{"source": *seedFileName}
		if err := loadBatched(ctx, loader, source, tag, origin, 5); err != nil {
			panic(err)
		}
		loader.Wait()
		return
	}

	tenantLoader, err := seed.NewLoader(tenantIndex, embedder)
	if err != nil {
		panic(err)
	}
	defer tenantLoader.Release()

	sharedLoader, err := seed.NewLoader(sharedIndex, embedder)
	if err != nil {
		panic(err)
	}
	defer sharedLoader.Release()

	origin := map[string]string{"source": "sample-data"}
	if err := loadBatched(ctx, tenantLoader, linesFromSlice(tenantPassages), core.SourceTenant, origin, 5); err != nil {
		panic(err)
	}
	if err := loadBatched(ctx, sharedLoader, linesFromSlice(sharedPassages), core.SourceShared, origin, 5); err != nil {
		panic(err)
	}
	tenantLoader.Wait()
	sharedLoader.Wait()
}
