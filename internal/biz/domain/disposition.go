package domain

// DispositionKind tags the classifier's decision for an inbound message
type DispositionKind int

const (
	// DispositionIgnore means no action is taken
	DispositionIgnore DispositionKind = iota
	// DispositionNotifyEmpty means the sender gets an empty-message notice
	DispositionNotifyEmpty
	// DispositionSummarizeReplyTarget means the replied-to message is summarized
	DispositionSummarizeReplyTarget
	// DispositionSummarizeSelf means the message itself is summarized
	DispositionSummarizeSelf
)

// Disposition is the classifier's decision about what, if anything,
// to summarize. Text and TargetMessageID are set only for the two
// summarize kinds; TargetMessageID is the anchor for the reply.
type Disposition struct {
	Kind            DispositionKind
	Text            string
	TargetMessageID int
}

// ShouldSummarize reports whether the disposition triggers generation
func (d Disposition) ShouldSummarize() bool {
	return d.Kind == DispositionSummarizeReplyTarget || d.Kind == DispositionSummarizeSelf
}
