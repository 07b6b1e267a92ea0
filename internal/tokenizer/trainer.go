package tokenizer

import (
	"context"
	"fmt"
	"log/slog"
)

// StepFunc observes a completed merge step. step is 1-based and count is the
// frequency the merged pair had when it was selected.
type StepFunc func(step int, rec MergeRecord, count int)

// Trainer learns a merge table from a corpus.
//
// Training is single threaded. Each step counts pairs over all chunks, merges
// the most frequent one and rewrites the chunks; the context is checked only
// between steps, so a cancelled run still yields a complete, usable table.
type Trainer struct {
	pre      *PreTokenizer
	counter  PairCounter
	applier  MergeApplier
	logger   *slog.Logger
	logEvery int
	onStep   StepFunc
}

// NewTrainer creates a trainer with the default strategies.
func NewTrainer(opts ...Option) *Trainer {
	return newTrainer(newOptions(opts))
}

func newTrainer(o options) *Trainer {
	return &Trainer{
		pre:      o.pre,
		counter:  o.counter,
		applier:  o.applier,
		logger:   o.logger,
		logEvery: o.logEvery,
		onStep:   o.onStep,
	}
}

// Chunks pre-tokenizes corpus and collapses identical chunks, keeping the
// order of first appearance.
func (tr *Trainer) Chunks(corpus string) ([]Chunk, error) {
	parts, err := tr.pre.Split(corpus)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int, len(parts)/4+1)
	chunks := make([]Chunk, 0, len(parts)/4+1)
	for _, part := range parts {
		if i, ok := seen[part]; ok {
			chunks[i].Freq++
			continue
		}
		seen[part] = len(chunks)
		chunks = append(chunks, Chunk{Symbols: ExpandBytes(part), Freq: 1})
	}
	return chunks, nil
}

// Train learns up to vocabSize-256 merges from corpus.
func (tr *Trainer) Train(ctx context.Context, corpus string, vocabSize int) (*MergeTable, error) {
	chunks, err := tr.Chunks(corpus)
	if err != nil {
		return NewMergeTable(), fmt.Errorf("failed to pre-tokenize corpus: %w", err)
	}
	return tr.TrainChunks(ctx, chunks, vocabSize)
}

// TrainChunks runs the merge loop over already expanded chunks. The chunks
// are consumed: their symbol slices are replaced as merges are applied.
//
// Running out of pairs is not an error; the returned table is then smaller
// than requested. On cancellation the table built so far is returned together
// with the context error.
func (tr *Trainer) TrainChunks(ctx context.Context, chunks []Chunk, vocabSize int) (*MergeTable, error) {
	table := NewMergeTable()
	numMerges := vocabSize - NumBytes
	if numMerges <= 0 {
		return table, nil
	}

	chunks = compactChunks(chunks)
	tr.logger.Info("bpe training started",
		"chunks", len(chunks),
		"target_vocab_size", vocabSize,
		"merges", numMerges)

	for step := 1; step <= numMerges; step++ {
		if err := ctx.Err(); err != nil {
			tr.logger.Warn("bpe training interrupted",
				"merges", table.NumMerges(),
				"vocab_size", table.Size())
			return table, err
		}

		counts := tr.counter.CountPairs(chunks)
		best, count, ok := counts.Best()
		if !ok {
			tr.logger.Info("bpe training stopped early: no pairs left",
				"merges", table.NumMerges(),
				"vocab_size", table.Size())
			return table, nil
		}

		rec := table.push(best)
		for i := range chunks {
			chunks[i].Symbols = tr.applier.ApplyMerge(chunks[i].Symbols, best, rec.ID)
		}
		chunks = compactChunks(chunks)

		if tr.onStep != nil {
			tr.onStep(step, rec, count)
		}
		if tr.logEvery > 0 && (step%tr.logEvery == 0 || step == numMerges) {
			merged, _ := table.Lookup(rec.ID)
			tr.logger.Info("bpe merge",
				"step", step,
				"of", numMerges,
				"pair", fmt.Sprintf("%d,%d", best.Left, best.Right),
				"id", rec.ID,
				"token", fmt.Sprintf("%q", merged),
				"count", count)
		}
	}

	tr.logger.Info("bpe training complete",
		"merges", table.NumMerges(),
		"vocab_size", table.Size())
	return table, nil
}

// compactChunks drops chunks that can no longer contain a pair.
func compactChunks(chunks []Chunk) []Chunk {
	out := chunks[:0]
	for _, ch := range chunks {
		if len(ch.Symbols) >= 2 {
			out = append(out, ch)
		}
	}
	return out
}
