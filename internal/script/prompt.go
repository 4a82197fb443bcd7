package script

import "fmt"

const responseFormat = `Format your response as:
ENGLISH TITLE: [clear, descriptive English title]
KOREAN TITLE: [clear, descriptive Korean title]

SCRIPT:
[the script body]`

// buildPrompt assembles the generation prompt for one variant. Each variant
// keeps its own word budget and structural rules; the two dialogue variants
// pin the exact speaker-marker format the turn extractor expects.
func buildPrompt(v Variant, input string, opts GenerateOptions) string {
	base := fmt.Sprintf("Input Type: %s\nCategory: %s\nContent: %s", opts.InputMethod, opts.Category, input)

	switch v {
	case VariantBasic:
		return fmt.Sprintf(`Create a very simple English script for absolute beginners based on the following input.

%s

Requirements:
1. Use only the most basic English vocabulary (elementary level)
2. Create exactly 5 sentences
3. Use simple present tense mostly
4. Each sentence should be 5-10 words maximum
5. Use very common, everyday words that beginners know
6. Make it practical for real-life situations

%s`, base, responseFormat)

	case VariantTED:
		return fmt.Sprintf(`Transform the following into a TED-style 3-minute presentation.

%s

Requirements:
1. Open with a powerful hook
2. Include personal stories or examples
3. Build 2-3 main points with clear transitions
4. End with an inspiring call to action
5. Use natural American English with TED-style language and pacing
6. Keep it around 400-450 words (3 minutes speaking)
7. Add [Opening Hook], [Main Point 1], etc. markers for structure

%s`, base, responseFormat)

	case VariantPodcast:
		return fmt.Sprintf(`Create a natural 2-person podcast dialogue using everyday American English.

%s

Requirements:
1. Create natural conversation between Host and Guest
2. Include follow-up questions and responses
3. Add conversational fillers and natural expressions that Americans use
4. Make it informative but casual and friendly
5. Around 400 words total
6. Format every line as "Host: [dialogue]" or "Guest: [dialogue]"
7. Add [Intro Music Fades Out], [Background ambiance] etc. for atmosphere

%s`, base, responseFormat)

	case VariantDialog:
		return fmt.Sprintf(`Create a practical daily conversation using natural American English.

%s

Requirements:
1. Create a realistic daily situation between two people
2. Use common, practical expressions that Americans use in daily life
3. Include polite phrases and natural responses
4. Around 300 words
5. Format every line as "A: [dialogue]" or "B: [dialogue]"
6. Add "Setting: [location/situation]" at the beginning

%s`, base, responseFormat)

	default: // original
		return fmt.Sprintf(`Create a natural, engaging English script based on the following input.

%s

Requirements:
1. Natural, conversational American English suitable for speaking practice
2. Everyday vocabulary and expressions that Americans commonly use
3. Length: 200-300 words
4. Suitable for intermediate English learners
5. Clear introduction, main content, and conclusion

%s`, base, responseFormat)
	}
}

func buildTranslationPrompt(text string) string {
	return fmt.Sprintf(`Translate the following English text to natural, fluent Korean.
Focus on meaning rather than literal translation.
Use conversational Korean that sounds natural.

English Text:
%s

Provide only the Korean translation:`, text)
}
