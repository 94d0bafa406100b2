package study

// feedbackDoneMsg is sent when the learner dismisses the verdict overlay.
type feedbackDoneMsg struct{}

// passEndMsg is sent to trigger the pass completion flow.
type passEndMsg struct{}

// restartMsg is sent by the summary screen's restart command to begin a new
// pass over the same cards.
type restartMsg struct{}
