package generate

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an English vocabulary tutor for Vietnamese learners preparing for IELTS. You always reply with a single JSON value and nothing else: no markdown, no commentary.`

func wordList(words []string) string {
	var b strings.Builder
	for i, w := range words {
		fmt.Fprintf(&b, "%d. %s\n", i+1, w)
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildDefinitionsMessage(words []string) string {
	return fmt.Sprintf(`Words:
%s

Instructions:
For every word above return an object with "word" (exactly as given), "definition" (one short learner-friendly sentence), "example" (one natural sentence using the word) and "ipa" (IPA transcription without slashes).
Reply as {"items": [...]} in the same order as the words.`, wordList(words))
}

var questionInstructions = map[QuestionType]string{
	QuestionMeaning:   `Ask which option best matches the meaning of the word. Options are short definitions.`,
	QuestionFillBlank: `Write a sentence with the word replaced by "____" and ask which option fills the blank. Options are words; the correct one is the target word or its correct form.`,
	QuestionSynonym:   `Ask which option is the closest synonym of the word. Options are single words or short phrases.`,
}

func buildQuestionsMessage(words []string, qt QuestionType) string {
	return fmt.Sprintf(`Words:
%s

Instructions:
Write one multiple-choice question per word. %s
Each question has exactly 4 options, one of which is correct. "correctAnswer" must be copied exactly from "options". Shuffle the position of the correct option.
Reply as {"items": [{"word": ..., "question": ..., "correctAnswer": ..., "options": [...]}]}.`, wordList(words), questionInstructions[qt])
}

func buildWritingMessage(words []string) string {
	return fmt.Sprintf(`Words:
%s

Instructions:
For every word write one natural English sentence (12-20 words) that uses it, and its Vietnamese translation. The learner will see the Vietnamese and must write the English sentence.
Reply as {"items": [{"word": ..., "sentence": ..., "vietnameseTranslation": ...}]}.`, wordList(words))
}

func buildStoryMessage(words []string) string {
	return fmt.Sprintf(`Words:
%s

Instructions:
Write a short, coherent story (150-250 words) that uses every word above at least once. Wrap each target word in **double asterisks**.
Reply as {"text": "..."}.`, wordList(words))
}

func buildWordListMessage(topic string, count int, exclude []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nCount: %d\n", topic, count)
	b.WriteString("\nAlready known (do not suggest):\n")
	if len(exclude) == 0 {
		b.WriteString("None\n")
	} else {
		b.WriteString(wordList(exclude) + "\n")
	}
	b.WriteString(`
Instructions:
Suggest useful IELTS-level English words for the topic. Single words or short fixed phrases, lowercase, no duplicates.
Reply as {"words": [...]}.`)
	return b.String()
}

func buildScoreMessage(text string, task TaskType, prompt string) string {
	return fmt.Sprintf(`IELTS Writing %s
Prompt: %s

Essay:
%s

Instructions:
Score the essay using the official IELTS band descriptors. Give a band (0-9, in steps of 0.5) for each criterion: %s, Coherence and Cohesion, Lexical Resource, Grammatical Range and Accuracy. Give the overall band, up to three strengths and up to three concrete improvements.
Reply as {"overallBand": ..., "criteria": [{"name": ..., "band": ..., "comment": ...}], "strengths": [...], "improvements": [...]}.`,
		taskLabel(task), prompt, text, taskCriterion(task))
}

func buildModelEssayMessage(topic string, task TaskType, band float64) string {
	return fmt.Sprintf(`IELTS Writing %s
Topic: %s
Target band: %.1f

Instructions:
Write a model answer that would realistically score the target band (%s). Then explain in 3-5 sentences what makes it reach that band.
Reply as {"essay": "...", "analysis": "..."}.`, taskLabel(task), topic, band, taskLength(task))
}

func buildGrammarMessage(text string) string {
	return fmt.Sprintf(`Text:
%s

Instructions:
List every grammar, spelling, punctuation and word-choice problem. "original" must be copied exactly from the text. Reply as {"issues": []} if there are none.
Reply as {"issues": [{"original": ..., "replacement": ..., "category": ..., "explanation": ...}]}.`, text)
}

func buildRewriteMessage(text, style string) string {
	return fmt.Sprintf(`Style: %s

Text:
%s

Instructions:
Rewrite the text in the requested style. Keep the meaning. Reply as {"text": "..."}.`, style, text)
}

func taskLabel(t TaskType) string {
	if t == Task1 {
		return "Task 1"
	}
	return "Task 2"
}

func taskCriterion(t TaskType) string {
	if t == Task1 {
		return "Task Achievement"
	}
	return "Task Response"
}

func taskLength(t TaskType) string {
	if t == Task1 {
		return "at least 150 words"
	}
	return "at least 250 words"
}
