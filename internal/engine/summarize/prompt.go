package summarize

// LLM prompt templates — data only, no logic.

// chunkPrompt summarizes one transcript segment.
// Args: part number, part count, segment text.
const chunkPrompt = `You are summarizing a YouTube video transcript that was split into parts.
This is part %d of %d.

Write a clear summary of this part. Keep every key point, main idea, name, number and
example that matters. Plain prose, no headings, no bullet lists. Do not mention that this
is a part or a transcript.

Transcript part:
%s`

// reducePrompt merges segment summaries into one narrative.
// Args: target words, part count, numbered summaries.
const reducePrompt = `Below are summaries of consecutive parts of one YouTube video, in order.
Combine them into a single cohesive narrative summary of about %d words.

Rules:
- follow the order of the video; there are %d parts
- remove repetition between parts, keep every distinct key point
- plain prose paragraphs, no headings, no bullet lists
- do not invent information that is not in the summaries

Part summaries:
%s`

// expandPrompt lengthens a short summary using the transcript as evidence.
// Args: current word count, target words, summary, transcript.
const expandPrompt = `The summary below has %d words but should be about %d words.
Expand it toward the target length using ONLY facts, examples and explanations found in the
transcript. Keep the same narrative order and tone. Plain prose, no headings, no bullet lists.
Output only the expanded summary.

Summary:
%s

Transcript:
%s`
