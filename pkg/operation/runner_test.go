// Copyright 2025 walteh LLC
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

package operation

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/resource"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockStore is a mock implementation of resource.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Read(ctx context.Context, path string) (*resource.Resource, error) {
	args := m.Called(ctx, path)
	res, _ := args.Get(0).(*resource.Resource)
	return res, args.Error(1)
}

func (m *MockStore) Write(ctx context.Context, res *resource.Resource, content string) error {
	return m.Called(ctx, res, content).Error(0)
}

// 🗂️ memStore keeps resources in a map, used where call ordering matters more than expectations
type memStore struct {
	mu    sync.Mutex
	files map[string]string
}

func (s *memStore) Read(_ context.Context, path string) (*resource.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[path]
	if !ok {
		return nil, &resource.ResourceAccessError{Path: path, Op: "read", Err: fs.ErrNotExist}
	}
	return &resource.Resource{Path: path, Content: content}, nil
}

func (s *memStore) Write(_ context.Context, res *resource.Resource, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[res.Path] = content
	return nil
}

func fooBatch(t *testing.T) *rewrite.Batch {
	t.Helper()
	batch, err := rewrite.NewBatch("foo",
		rewrite.MustRule("foo-to-bar", rewrite.Literal("foo"), rewrite.Text("bar")),
	)
	require.NoError(t, err)
	return batch
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		batch       func(t *testing.T) *rewrite.Batch
		setupMocks  func(store *MockStore)
		wantOutcome status.Outcome
		wantPhase   status.Phase
		wantWritten bool
		wantTotal   int
		wantDiff    string
		checkErr    func(t *testing.T, err error)
	}{
		{
			name:  "modified_content_is_written",
			batch: fooBatch,
			setupMocks: func(store *MockStore) {
				res := &resource.Resource{Path: "a.txt", Content: "a foo b"}
				store.On("Read", mock.Anything, "a.txt").Return(res, nil)
				store.On("Write", mock.Anything, res, "a bar b").Return(nil)
			},
			wantOutcome: status.OutcomeModified,
			wantPhase:   status.PhaseDone,
			wantWritten: true,
			wantTotal:   1,
			wantDiff:    "@@ -1 @@\n-a foo b\n+a bar b\n",
		},
		{
			name:  "zero_matches_is_success_without_write",
			batch: fooBatch,
			setupMocks: func(store *MockStore) {
				store.On("Read", mock.Anything, "a.txt").Return(&resource.Resource{Path: "a.txt", Content: "a bar b"}, nil)
			},
			wantOutcome: status.OutcomeUnchanged,
			wantPhase:   status.PhaseDone,
		},
		{
			name:  "dry_run_reports_without_write",
			opts:  Options{DryRun: true},
			batch: fooBatch,
			setupMocks: func(store *MockStore) {
				store.On("Read", mock.Anything, "a.txt").Return(&resource.Resource{Path: "a.txt", Content: "x\nfoo\ny"}, nil)
			},
			wantOutcome: status.OutcomePending,
			wantPhase:   status.PhaseDone,
			wantTotal:   1,
			wantDiff:    "@@ -2 @@\n-foo\n+bar\n",
		},
		{
			name:  "missing_resource",
			batch: fooBatch,
			setupMocks: func(store *MockStore) {
				store.On("Read", mock.Anything, "a.txt").
					Return(nil, &resource.ResourceAccessError{Path: "a.txt", Op: "read", Err: fs.ErrNotExist})
			},
			wantOutcome: status.OutcomeFailed,
			wantPhase:   status.PhaseFailed,
			checkErr: func(t *testing.T, err error) {
				var rae *resource.ResourceAccessError
				require.True(t, errors.As(err, &rae), "should be a ResourceAccessError")
				assert.Equal(t, "read", rae.Op)
				assert.True(t, errors.Is(err, fs.ErrNotExist))
			},
		},
		{
			name:  "write_failure_is_reported",
			batch: fooBatch,
			setupMocks: func(store *MockStore) {
				res := &resource.Resource{Path: "a.txt", Content: "foo"}
				store.On("Read", mock.Anything, "a.txt").Return(res, nil)
				store.On("Write", mock.Anything, res, "bar").
					Return(&resource.ResourceAccessError{Path: "a.txt", Op: "write", Err: fs.ErrPermission})
			},
			wantOutcome: status.OutcomeFailed,
			wantPhase:   status.PhaseFailed,
			wantTotal:   1,
			wantDiff:    "@@ -1 @@\n-foo\n+bar\n",
			checkErr: func(t *testing.T, err error) {
				var rae *resource.ResourceAccessError
				require.True(t, errors.As(err, &rae), "should be a ResourceAccessError")
				assert.Equal(t, "write", rae.Op)
			},
		},
		{
			name: "producer_failure_aborts_before_write",
			batch: func(t *testing.T) *rewrite.Batch {
				return &rewrite.Batch{Name: "broken", Rules: []*rewrite.Rule{
					rewrite.MustRule("explode", rewrite.Literal("foo"), rewrite.Func(func(rewrite.Match) (string, error) {
						return "", errors.New("no replacement")
					})),
				}}
			},
			setupMocks: func(store *MockStore) {
				store.On("Read", mock.Anything, "a.txt").Return(&resource.Resource{Path: "a.txt", Content: "foo"}, nil)
			},
			wantOutcome: status.OutcomeFailed,
			wantPhase:   status.PhaseFailed,
			checkErr: func(t *testing.T, err error) {
				var rde *rewrite.RuleDefinitionError
				require.True(t, errors.As(err, &rde), "should be a RuleDefinitionError")
				assert.Equal(t, "explode", rde.Rule)
			},
		},
		{
			name: "non_idempotent_batch_is_refused",
			opts: Options{VerifyIdempotent: true},
			batch: func(t *testing.T) *rewrite.Batch {
				return &rewrite.Batch{Name: "grow", Rules: []*rewrite.Rule{
					rewrite.MustRule("double", rewrite.Literal("a"), rewrite.Text("aa")),
				}}
			},
			setupMocks: func(store *MockStore) {
				store.On("Read", mock.Anything, "a.txt").Return(&resource.Resource{Path: "a.txt", Content: "a"}, nil)
			},
			wantOutcome: status.OutcomeFailed,
			wantPhase:   status.PhaseFailed,
			wantTotal:   1,
			checkErr: func(t *testing.T, err error) {
				var rde *rewrite.RuleDefinitionError
				require.True(t, errors.As(err, &rde), "should be a RuleDefinitionError")
				assert.Contains(t, err.Error(), "not idempotent")
			},
		},
		{
			name:  "nil_batch",
			batch: func(t *testing.T) *rewrite.Batch { return nil },
			setupMocks: func(store *MockStore) {
			},
			wantOutcome: status.OutcomeFailed,
			wantPhase:   status.PhaseFailed,
			checkErr: func(t *testing.T, err error) {
				var rde *rewrite.RuleDefinitionError
				require.True(t, errors.As(err, &rde), "should be a RuleDefinitionError")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStore{}
			tt.setupMocks(store)

			opts := tt.opts
			opts.Store = store
			runner, err := NewRunner(opts)
			require.NoError(t, err)

			out, err := runner.Run(context.Background(), Target{Path: "a.txt", Batch: tt.batch(t)})
			require.NotNil(t, out, "outcome should always be returned")

			if tt.checkErr != nil {
				require.Error(t, err)
				tt.checkErr(t, err)
				assert.Equal(t, err, out.Err, "the outcome carries the failure")
			} else {
				require.NoError(t, err)
				assert.NoError(t, out.Err)
			}

			assert.Equal(t, tt.wantOutcome, out.Outcome, "outcome")
			assert.Equal(t, tt.wantPhase, out.Phase, "phase")
			assert.Equal(t, tt.wantWritten, out.Written, "written")
			assert.Equal(t, tt.wantDiff, out.Diff, "diff")
			if out.Report != nil {
				assert.Equal(t, tt.wantTotal, out.Report.Total(), "total replacements")
			} else {
				assert.Zero(t, tt.wantTotal, "report should be present")
			}

			store.AssertExpectations(t)
		})
	}
}

func TestNewRunner_RequiresStore(t *testing.T) {
	_, err := NewRunner(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store is required")
}

func TestRunner_Run_Cancelled(t *testing.T) {
	store := &MockStore{}
	res := &resource.Resource{Path: "a.txt", Content: "foo"}
	store.On("Read", mock.Anything, "a.txt").Return(res, nil).Maybe()

	runner, err := NewRunner(Options{Store: store})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := runner.Run(ctx, Target{Path: "a.txt", Batch: fooBatch(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, status.PhaseFailed, out.Phase)
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunner_RunAll(t *testing.T) {
	store := &memStore{files: map[string]string{
		"one.txt": "foo foo",
		"two.txt": "nothing here",
	}}

	runner, err := NewRunner(Options{Store: store, Concurrency: 2})
	require.NoError(t, err)

	// the second batch on one.txt only matches what the first one produced
	barBatch, err := rewrite.NewBatch("bar",
		rewrite.MustRule("bar-to-baz", rewrite.Literal("bar"), rewrite.Text("baz")),
	)
	require.NoError(t, err)

	targets := []Target{
		{Path: "one.txt", Batch: fooBatch(t)},
		{Path: "two.txt", Batch: fooBatch(t)},
		{Path: "missing.txt", Batch: fooBatch(t)},
		{Path: "one.txt", Batch: barBatch},
	}

	outcomes, err := runner.RunAll(context.Background(), targets)
	require.Error(t, err, "the missing file should fail")
	require.Len(t, outcomes, len(targets))

	var rae *resource.ResourceAccessError
	require.True(t, errors.As(err, &rae))
	assert.Equal(t, "missing.txt", rae.Path)

	assert.Equal(t, status.OutcomeModified, outcomes[0].Outcome)
	assert.Equal(t, 2, outcomes[0].Report.Total())
	assert.Equal(t, status.OutcomeUnchanged, outcomes[1].Outcome)
	assert.Equal(t, status.OutcomeFailed, outcomes[2].Outcome)
	assert.Equal(t, status.OutcomeModified, outcomes[3].Outcome)
	assert.Equal(t, 2, outcomes[3].Report.Total())

	assert.Equal(t, "baz baz", store.files["one.txt"], "targets on the same path run in order")
	assert.Equal(t, "nothing here", store.files["two.txt"])
}

func TestRunner_RunAll_DryRunMatchesRealRun(t *testing.T) {
	batches := func(t *testing.T) []Target {
		t.Helper()
		redToBlue, err := rewrite.NewBatch("red-to-blue",
			rewrite.MustRule("red", rewrite.Literal("red"), rewrite.Text("blue")),
		)
		require.NoError(t, err)
		blueToGreen, err := rewrite.NewBatch("blue-to-green",
			rewrite.MustRule("blue", rewrite.Literal("blue"), rewrite.Text("green")),
		)
		require.NoError(t, err)
		return []Target{
			{Path: "menu.tsx", Batch: redToBlue},
			{Path: "menu.tsx", Batch: blueToGreen},
		}
	}

	tests := []struct {
		name        string
		dryRun      bool
		wantOutcome status.Outcome
		wantFile    string
	}{
		{name: "apply", dryRun: false, wantOutcome: status.OutcomeModified, wantFile: "green\n"},
		{name: "dry_run", dryRun: true, wantOutcome: status.OutcomePending, wantFile: "red\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{files: map[string]string{"menu.tsx": "red\n"}}
			runner, err := NewRunner(Options{Store: store, DryRun: tt.dryRun})
			require.NoError(t, err)

			outcomes, err := runner.RunAll(context.Background(), batches(t))
			require.NoError(t, err)
			require.Len(t, outcomes, 2)

			for i, out := range outcomes {
				assert.Equal(t, tt.wantOutcome, out.Outcome, "target %d", i)
				assert.Equal(t, 1, out.Report.Total(), "target %d", i)
			}
			assert.Contains(t, outcomes[1].Diff, "-blue")
			assert.Contains(t, outcomes[1].Diff, "+green")
			assert.Equal(t, tt.wantFile, store.files["menu.tsx"])
		})
	}
}

func TestRunner_FileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "App.tsx")
	before := "<span className=\"font-semibold\">Menu</span>\n"
	require.NoError(t, os.WriteFile(path, []byte(before), 0o644))

	store, err := resource.NewFileStore("")
	require.NoError(t, err)

	batch, err := rewrite.NewBatch("title",
		rewrite.MustRule("font-semibold-size",
			rewrite.Literal(`<span className="font-semibold"`),
			rewrite.Text(`<span className="font-semibold" style={{fontSize: 'calc(1em + 3px)'}}`),
			rewrite.WithGuards(rewrite.UnlessFollowedBy(` style={{`)),
		),
	)
	require.NoError(t, err)

	runner, err := NewRunner(Options{Store: store, VerifyIdempotent: true})
	require.NoError(t, err)

	out, err := runner.Run(context.Background(), Target{Path: path, Batch: batch})
	require.NoError(t, err)
	assert.True(t, out.Written)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<span className=\"font-semibold\" style={{fontSize: 'calc(1em + 3px)'}}>Menu</span>\n", string(after))

	// second run: already applied, nothing written
	out, err = runner.Run(context.Background(), Target{Path: path, Batch: batch})
	require.NoError(t, err)
	assert.Equal(t, status.OutcomeUnchanged, out.Outcome)
	assert.False(t, out.Written)
	assert.Equal(t, 0, out.Report.Total())
	assert.Equal(t, 1, out.Report.Rules[0].Skipped)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{name: "equal", before: "a\nb\n", after: "a\nb\n", want: ""},
		{name: "single_line", before: "a\nb\nc\n", after: "a\nX\nc\n", want: "@@ -2 @@\n-b\n+X\n"},
		{name: "insert_only", before: "a\n", after: "a\nb\n", want: "@@ -2 @@\n+b\n"},
		{
			name:   "two_hunks",
			before: "a\nb\nc\nd\n",
			after:  "A\nb\nc\nD\n",
			want:   "@@ -1 @@\n-a\n+A\n@@ -4 @@\n-d\n+D\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.before, tt.after))
		})
	}
}
