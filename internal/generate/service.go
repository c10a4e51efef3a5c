// Package generate turns word lists into study content through an LLM
// provider. Replies are requested as JSON and normalized by a fixed list
// of shape matchers before validation.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/vocabz/internal/llm"
	"github.com/abhisek/vocabz/internal/vocab"
)

// Service issues generation requests.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a Service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

var errNoWords = errors.New("no words given")

// ask sends one user message and decodes the reply into out.
func (s *Service) ask(ctx context.Context, purpose, msg string, schema *llm.Schema, matchers []matcher, out any) (llm.Usage, error) {
	ctx = llm.WithPurpose(ctx, purpose)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: msg},
		},
		JSONMode:    true,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return llm.Usage{}, fmt.Errorf("%s generation: %w", purpose, err)
	}
	if err := decode(resp.Content, schema, matchers, out); err != nil {
		return resp.Usage, fmt.Errorf("parse %s response: %w", purpose, err)
	}
	return resp.Usage, nil
}

// Definitions generates a definition, example and IPA for each word.
func (s *Service) Definitions(ctx context.Context, words []string) ([]Definition, llm.Usage, error) {
	if len(words) == 0 {
		return nil, llm.Usage{}, errNoWords
	}
	var out []Definition
	usage, err := s.ask(ctx, "definitions", buildDefinitionsMessage(words), DefinitionsSchema, listMatchers("items"), &out)
	if err != nil {
		return nil, usage, err
	}
	return out, usage, nil
}

// Questions generates one four-option question per word.
func (s *Service) Questions(ctx context.Context, words []string, qt QuestionType) ([]vocab.QuizQuestion, llm.Usage, error) {
	if len(words) == 0 {
		return nil, llm.Usage{}, errNoWords
	}
	if _, ok := questionInstructions[qt]; !ok {
		return nil, llm.Usage{}, fmt.Errorf("unknown question type %q", qt)
	}
	var out []vocab.QuizQuestion
	usage, err := s.ask(ctx, "questions", buildQuestionsMessage(words, qt), QuestionsSchema, listMatchers("items"), &out)
	if err != nil {
		return nil, usage, err
	}
	for i, q := range out {
		if !vocab.ContainsWord(q.Options, q.CorrectAnswer) {
			return nil, usage, &llm.GenerationError{
				Err: fmt.Errorf("question %d: correct answer %q is not among the options", i+1, q.CorrectAnswer),
			}
		}
	}
	return out, usage, nil
}

// WritingExercises generates one translation exercise per word.
func (s *Service) WritingExercises(ctx context.Context, words []string) ([]vocab.WritingExercise, llm.Usage, error) {
	if len(words) == 0 {
		return nil, llm.Usage{}, errNoWords
	}
	var out []vocab.WritingExercise
	usage, err := s.ask(ctx, "writing", buildWritingMessage(words), WritingSchema, listMatchers("items"), &out)
	if err != nil {
		return nil, usage, err
	}
	return out, usage, nil
}

type textReply struct {
	Text string `json:"text"`
}

var textMatchers = []matcher{textUnder("text", "story", "rewrite", "result"), bareString}

// Story writes a short story using every word.
func (s *Service) Story(ctx context.Context, words []string) (string, llm.Usage, error) {
	if len(words) == 0 {
		return "", llm.Usage{}, errNoWords
	}
	var out textReply
	usage, err := s.ask(ctx, "story", buildStoryMessage(words), TextSchema, textMatchers, &out)
	if err != nil {
		return "", usage, err
	}
	return out.Text, usage, nil
}

// WordList suggests up to count new words for topic. Words in exclude and
// repeated suggestions are dropped.
func (s *Service) WordList(ctx context.Context, topic string, count int, exclude []string) ([]string, llm.Usage, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, llm.Usage{}, errors.New("no topic given")
	}
	if count <= 0 {
		count = 10
	}
	var raw []string
	usage, err := s.ask(ctx, "word-list", buildWordListMessage(topic, count, exclude), WordListSchema, listMatchers("words"), &raw)
	if err != nil {
		return nil, usage, err
	}

	var out []string
	for _, w := range raw {
		if vocab.ContainsWord(exclude, w) {
			continue
		}
		out = vocab.AppendUnique(out, w)
		if len(out) == count {
			break
		}
	}
	return out, usage, nil
}

// ScoreEssay band-scores an essay written for prompt.
func (s *Service) ScoreEssay(ctx context.Context, text string, task TaskType, prompt string) (ScoreReport, llm.Usage, error) {
	if strings.TrimSpace(text) == "" {
		return ScoreReport{}, llm.Usage{}, errors.New("empty essay")
	}
	var out ScoreReport
	matchers := []matcher{objectUnder("report"), object}
	usage, err := s.ask(ctx, "essay-score", buildScoreMessage(text, task, prompt), ScoreSchema, matchers, &out)
	if err != nil {
		return ScoreReport{}, usage, err
	}
	return out, usage, nil
}

// ModelEssay writes a sample essay aimed at band.
func (s *Service) ModelEssay(ctx context.Context, topic string, task TaskType, band float64) (ModelEssay, llm.Usage, error) {
	if strings.TrimSpace(topic) == "" {
		return ModelEssay{}, llm.Usage{}, errors.New("no topic given")
	}
	var out ModelEssay
	matchers := []matcher{objectUnder("result"), object}
	usage, err := s.ask(ctx, "model-essay", buildModelEssayMessage(topic, task, band), ModelEssaySchema, matchers, &out)
	if err != nil {
		return ModelEssay{}, usage, err
	}
	return out, usage, nil
}

// CheckGrammar lists corrections for text. No issues is an empty slice.
func (s *Service) CheckGrammar(ctx context.Context, text string) ([]GrammarIssue, llm.Usage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, llm.Usage{}, errors.New("empty text")
	}
	out := []GrammarIssue{}
	matchers := []matcher{bareArray, arrayUnder("issues"), singleArrayField}
	usage, err := s.ask(ctx, "grammar", buildGrammarMessage(text), GrammarSchema, matchers, &out)
	if err != nil {
		return nil, usage, err
	}
	return out, usage, nil
}

// Rewrite restyles text.
func (s *Service) Rewrite(ctx context.Context, text, style string) (string, llm.Usage, error) {
	if strings.TrimSpace(text) == "" {
		return "", llm.Usage{}, errors.New("empty text")
	}
	if style == "" {
		style = "formal academic"
	}
	var out textReply
	usage, err := s.ask(ctx, "rewrite", buildRewriteMessage(text, style), TextSchema, textMatchers, &out)
	if err != nil {
		return "", usage, err
	}
	return out.Text, usage, nil
}

// CheckWriting reports whether a learner's sentence uses the exercise's
// target word.
func CheckWriting(ex vocab.WritingExercise, answer string) bool {
	return strings.Contains(strings.ToLower(answer), vocab.Key(ex.Word))
}

// CheckQuiz reports whether answer matches the correct option, ignoring
// case and surrounding space. A single letter A-D selects an option.
func CheckQuiz(q vocab.QuizQuestion, answer string) bool {
	answer = strings.TrimSpace(answer)
	if len(answer) == 1 && len(q.Options) == 4 {
		if i := strings.IndexByte("abcd", byte(strings.ToLower(answer)[0])); i >= 0 {
			answer = q.Options[i]
		}
	}
	return vocab.Key(answer) == vocab.Key(q.CorrectAnswer)
}
