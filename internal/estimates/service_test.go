package estimates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLLM struct {
	replies []string
	err     error
	prompts []string
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

type failingRepo struct {
	*MemoryRepo
	err error
}

func (f *failingRepo) CreateBatch(ctx context.Context, rows []CostEstimate) error {
	return f.err
}

const (
	stepOneReply = `{"tasks":[{"task":"A","subtasks":[{"subtask":"a1"},{"subtask":"a2"}]},{"task":"B","subtasks":[{"subtask":"b1"}]}]}`
	stepTwoReply = `Sure! {"tasks":[{"task":"A","subtasks":[{"subtask":"a1","hours":5,"comments":"x"},{"subtask":"a2","hours":3,"comments":"y"}]},{"task":"B","subtasks":[{"subtask":"b1","hours":8,"comments":"z"}]}]}`
)

func testInput() Input {
	return Input{
		ProjectID:       42,
		ProjectName:     "Clinic Portal",
		ProjectSize:     "small",
		Industry:        "Healthcare",
		AdditionalInfo:  "Go, React",
		DocumentContent: "Patients book appointments online.",
	}
}

func TestRunPersistsAndSummarizes(t *testing.T) {
	llmStub := &scriptedLLM{replies: []string{stepOneReply, stepTwoReply}}
	repo := NewMemoryRepo()
	svc := &Service{LLM: llmStub, Repo: repo, Catalog: DefaultCatalog()}

	out, err := svc.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, Summary{TotalHours: 16, NumTasks: 2, NumSubtasks: 3}, out.Summary)
	assert.Equal(t, sampleTasks(), out.Tasks)

	rows, err := repo.ListByProject(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "a1", rows[0].Subtask)
	assert.Equal(t, 8, rows[2].DevelopmentHours)

	require.Len(t, llmStub.prompts, 2)
	assert.Contains(t, llmStub.prompts[0], "Patients book appointments online.")
	assert.Contains(t, llmStub.prompts[1], "40-120 Hours")
	assert.Contains(t, llmStub.prompts[1], "patient records, data privacy, appointment system, billing")
	assert.Contains(t, llmStub.prompts[1], `"subtask": "b1"`)
}

func TestRunOutOfRangeIsNotClamped(t *testing.T) {
	in := testInput()
	in.ProjectSize = "large"
	svc := &Service{LLM: &scriptedLLM{replies: []string{stepOneReply, stepTwoReply}}, Repo: NewMemoryRepo()}

	out, err := svc.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 16, out.Summary.TotalHours)
}

func TestRunStepOneFailureWritesNothing(t *testing.T) {
	llmStub := &scriptedLLM{replies: []string{"not json at all", stepTwoReply}}
	repo := NewMemoryRepo()
	svc := &Service{LLM: llmStub, Repo: repo}

	out, err := svc.Run(context.Background(), testInput())
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrPipeline)
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Len(t, llmStub.prompts, 1)
	assert.Equal(t, 0, repo.Count())
}

func TestRunStepTwoMissingTasksWritesNothing(t *testing.T) {
	llmStub := &scriptedLLM{replies: []string{stepOneReply, `{"estimates":[]}`}}
	repo := NewMemoryRepo()
	svc := &Service{LLM: llmStub, Repo: repo}

	_, err := svc.Run(context.Background(), testInput())
	assert.ErrorIs(t, err, ErrPipeline)
	assert.ErrorIs(t, err, ErrMissingTasks)
	assert.Equal(t, 0, repo.Count())
}

func TestRunLLMErrorIsWrapped(t *testing.T) {
	boom := errors.New("upstream 529")
	svc := &Service{LLM: &scriptedLLM{err: boom}, Repo: NewMemoryRepo()}

	_, err := svc.Run(context.Background(), testInput())
	assert.ErrorIs(t, err, ErrPipeline)
	assert.ErrorIs(t, err, boom)
}

func TestRunPersistenceErrorIsWrapped(t *testing.T) {
	dbErr := errors.New("fk violation")
	svc := &Service{
		LLM:  &scriptedLLM{replies: []string{stepOneReply, stepTwoReply}},
		Repo: &failingRepo{MemoryRepo: NewMemoryRepo(), err: dbErr},
	}

	out, err := svc.Run(context.Background(), testInput())
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrPipeline)
	assert.ErrorIs(t, err, dbErr)
}

func TestRunMissingDependencies(t *testing.T) {
	_, err := (&Service{}).Run(context.Background(), testInput())
	assert.ErrorIs(t, err, ErrPipeline)
}

func TestForProjectRegroupsRows(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateBatch(context.Background(), toRecords(5, sampleTasks())))
	svc := &Service{Repo: repo}

	got, err := svc.ForProject(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, Summary{TotalHours: 16, NumTasks: 2, NumSubtasks: 3}, got.Summary)

	none, err := svc.ForProject(context.Background(), 6)
	require.NoError(t, err)
	assert.Empty(t, none.Tasks)
}

func TestRunStepOneMissingTasksWritesNothing(t *testing.T) {
	llmStub := &scriptedLLM{replies: []string{`{"plan":[{"task":"A"}]}`, stepTwoReply}}
	repo := NewMemoryRepo()
	svc := &Service{LLM: llmStub, Repo: repo}

	_, err := svc.Run(context.Background(), testInput())
	assert.ErrorIs(t, err, ErrPipeline)
	assert.ErrorIs(t, err, ErrMissingTasks)
	assert.Len(t, llmStub.prompts, 1)
	assert.Equal(t, 0, repo.Count())
}

func TestRunSummaryForTwoTasks(t *testing.T) {
	stepOne := `{"tasks":[{"task":"T1","subtasks":[{"subtask":"s1"},{"subtask":"s2"}]},{"task":"T2","subtasks":[{"subtask":"s3"}]}]}`
	stepTwo := `{"tasks":[{"task":"T1","subtasks":[{"subtask":"s1","hours":8,"comments":""},{"subtask":"s2","hours":5,"comments":""}]},{"task":"T2","subtasks":[{"subtask":"s3","hours":3,"comments":""}]}]}`
	svc := &Service{LLM: &scriptedLLM{replies: []string{stepOne, stepTwo}}, Repo: NewMemoryRepo()}

	out, err := svc.Run(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, Summary{TotalHours: 16, NumTasks: 2, NumSubtasks: 3}, out.Summary)
}

func TestForProjectMatchesRunForRepeatedTaskNames(t *testing.T) {
	stepOne := `{"tasks":[{"task":"Backend","subtasks":[{"subtask":"a"}]},{"task":"Backend","subtasks":[{"subtask":"b"}]}]}`
	stepTwo := `{"tasks":[{"task":"Backend","subtasks":[{"subtask":"a","hours":2,"comments":""}]},{"task":"Backend","subtasks":[{"subtask":"b","hours":3,"comments":""}]}]}`
	repo := NewMemoryRepo()
	svc := &Service{LLM: &scriptedLLM{replies: []string{stepOne, stepTwo}}, Repo: repo, Catalog: DefaultCatalog()}

	out, err := svc.Run(context.Background(), testInput())
	require.NoError(t, err)

	got, err := svc.ForProject(context.Background(), testInput().ProjectID)
	require.NoError(t, err)
	assert.Equal(t, Summary{TotalHours: 5, NumTasks: 2, NumSubtasks: 2}, out.Summary)
	assert.Equal(t, out.Summary, got.Summary)
	assert.Equal(t, out.Tasks, got.Tasks)
}
