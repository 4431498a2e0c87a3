package mcpserver

// NoteFormat describes how jotdesk stores and addresses notes, for LLM
// consumers of the MCP tools.
const NoteFormat = `# jotdesk Note Format

Every note is one plain-text file in a single flat notes directory.

## Rules

1. **The title is the identity.** A note titled ` + "`Groceries`" + ` is stored as
   ` + "`Groceries.txt`" + `. Saving with an existing title replaces that note.
2. **Titles must be valid filenames.** No path separators (` + "`/`" + ` or ` + "`\\`" + `),
   not empty, not ` + "`.`" + ` or ` + "`..`" + `.
3. **Content is the file body, verbatim.** No frontmatter, no metadata, no
   markup requirements; newlines are preserved exactly.
4. **Timestamps are not stored in the file.** Creation and modification
   times are inferred from filesystem metadata when notes are loaded.
5. **No subdirectories.** All notes live directly in the notes directory.

## Example

Tool call ` + "`save_note`" + ` with title ` + "`Groceries`" + ` and content
` + "`milk, eggs`" + ` produces a file ` + "`Groceries.txt`" + ` containing exactly
` + "`milk, eggs`" + `.
`
