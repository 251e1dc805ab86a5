package protein

// Reply is one outgoing message produced by the classifier.
// It is implemented by TextReply and ImageReply.
type Reply interface {
	Kind() string
}

// TextReply is a plain text message.
type TextReply struct {
	Body string
}

// Kind returns "text".
func (TextReply) Kind() string { return "text" }

// ImageReply references an externally hosted image.
// LINE requires both URLs; in every shipped profile they are identical.
type ImageReply struct {
	FullURL    string
	PreviewURL string
}

// Kind returns "image".
func (ImageReply) Kind() string { return "image" }

// Batch is the ordered set of replies sent with a single reply token.
type Batch []Reply

func textBatch(body string) Batch {
	return Batch{TextReply{Body: body}}
}

func imageBatch(urls []string) Batch {
	batch := make(Batch, 0, len(urls))
	for _, u := range urls {
		batch = append(batch, ImageReply{FullURL: u, PreviewURL: u})
	}
	return batch
}
