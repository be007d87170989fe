package http

// Body is the outgoing request body. The variants are EmptyBody, TextBody,
// BinaryBody and FormBody.
type Body interface {
	// dispatch hands the body to an opened transport.
	dispatch(t Transport) error
}

// EmptyBody sends no body.
type EmptyBody struct{}

// TextBody sends a string verbatim.
type TextBody string

// BinaryBody sends a blob. The blob is referenced, not copied.
type BinaryBody struct {
	Blob *Blob
}

// FormBody sends multipart form data. The form is referenced, not copied.
type FormBody struct {
	Form *FormData
}

func (EmptyBody) dispatch(t Transport) error {
	return t.Send()
}

func (b TextBody) dispatch(t Transport) error {
	return t.SendText(string(b))
}

func (b BinaryBody) dispatch(t Transport) error {
	if b.Blob == nil {
		return t.Send()
	}
	return t.SendBlob(b.Blob)
}

func (b FormBody) dispatch(t Transport) error {
	if b.Form == nil {
		return t.Send()
	}
	return t.SendForm(b.Form)
}

// Text is shorthand for TextBody(s).
func Text(s string) Body {
	return TextBody(s)
}

// Binary is shorthand for BinaryBody{Blob: b}.
func Binary(b *Blob) Body {
	return BinaryBody{Blob: b}
}

// Form is shorthand for FormBody{Form: f}.
func Form(f *FormData) Body {
	return FormBody{Form: f}
}
