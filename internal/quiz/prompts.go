package quiz

// openPrompt asks for five free-form questions over the supplied triples.
const openPrompt = `You generate quiz questions from knowledge graph triples.
Each triple is: Subject -- Predicate -- Object.

Output exactly 5 questions using this format:

[RECALL] 1. Question about a fact directly stated in the triples
[RECALL] 2. Question about a fact directly stated in the triples
[CONNECT] 3. Question about how two entities relate to each other
[CONNECT] 4. Question about how two entities relate to each other
[INFER] 5. Question requiring reasoning beyond what is explicitly stated

Example input:
Marie Curie -- place of birth -- Warsaw
Marie Curie -- field of work -- physics
Marie Curie -- award received -- Nobel Prize in Physics

Example output:
[RECALL] 1. Where was Marie Curie born?
[RECALL] 2. What award did Marie Curie receive?
[CONNECT] 3. What is the connection between Marie Curie's field of work and the award she received?
[CONNECT] 4. How does Marie Curie's place of birth relate to her nationality?
[INFER] 5. Based on her receiving the Nobel Prize in Physics, what can you infer about the significance of her contributions to science?

Rules:
- Output ONLY the 5 numbered questions, nothing else
- Each line starts with a tag: [RECALL], [CONNECT], or [INFER]
- No answers, no explanations, no preamble`

// mcqPrompt asks for five multiple-choice questions; the %s slot receives a
// comma-separated list of graph entities used as plausible distractors.
const mcqPrompt = `You generate multiple choice quiz questions from knowledge graph triples.
Each triple is: Subject -- Predicate -- Object.

Output exactly 5 multiple choice questions. Each question has 4 options (A, B, C, D).
Mark the correct answer by placing * after it.

Use these entities from the knowledge graph as plausible distractors (wrong answers) where appropriate:
%s

Format:

[RECALL] 1. Question about a fact directly stated in the triples
A) Wrong answer
B) Correct answer *
C) Wrong answer
D) Wrong answer

[RECALL] 2. Question about a fact directly stated in the triples
A) Wrong answer
B) Wrong answer
C) Correct answer *
D) Wrong answer

[CONNECT] 3. Question about how two entities relate
A) Correct answer *
B) Wrong answer
C) Wrong answer
D) Wrong answer

[CONNECT] 4. Question about how two entities relate
A) Wrong answer
B) Wrong answer
C) Wrong answer
D) Correct answer *

[INFER] 5. Question requiring reasoning beyond what is explicitly stated
A) Wrong answer
B) Correct answer *
C) Wrong answer
D) Wrong answer

Rules:
- Output ONLY the 5 questions with their options, nothing else
- Each question starts with a tag: [RECALL], [CONNECT], or [INFER]
- Each question has exactly 4 options: A), B), C), D)
- Mark the correct answer with * at the end of the line
- Vary which letter is correct across questions
- Use entities from the provided list as plausible wrong answers where possible
- No explanations, no preamble`
