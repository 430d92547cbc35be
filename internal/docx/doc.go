// Package docx reads the text structure of an Office Open XML word
// processing package and renders it as CommonMark.
//
// Headings, paragraphs, bullet and numbered lists, tables, code-styled
// paragraphs, hyperlinks and bold/italic/strikethrough runs are carried
// over. Images, text boxes, tracked deletions and field instructions are
// dropped. All ASCII punctuation in document text is backslash-escaped so
// that no text can be read back as markup.
package docx
