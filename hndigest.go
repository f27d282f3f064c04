// Package hndigest reads HackerNews-style article lists, extracts readable
// text from the linked HTML pages and PDF documents, summarizes it with a
// chat-completion model, and keeps a persisted list of favorite articles and
// papers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, openai/, sqlite/).
// Orchestration of fetch, extraction and summarization lives in digest/.
package hndigest
