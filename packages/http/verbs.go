package http

import "fmt"

// The verbs below bypass Request and Response: they open a transport with a
// fixed method, send no body or a string body, and resolve to the status and
// response text.

func (c *Client) Get(url string) *Future[Reply] {
	return c.quick(GET, url, nil)
}

// Put sends a PUT without a body. Use the Request builder for a PUT payload.
func (c *Client) Put(url string) *Future[Reply] {
	return c.quick(PUT, url, nil)
}

func (c *Client) Delete(url string) *Future[Reply] {
	return c.quick(DELETE, url, nil)
}

func (c *Client) Patch(url, data string) *Future[Reply] {
	return c.quick(PATCH, url, &data)
}

func (c *Client) Post(url, data string) *Future[Reply] {
	return c.quick(POST, url, &data)
}

func (c *Client) quick(method Method, url string, data *string) *Future[Reply] {
	t, err := c.newTransport()
	if err != nil {
		return failedFuture[Reply](fmt.Errorf("failed to create transport: %w", err))
	}
	if err := t.Open(string(method), url); err != nil {
		return failedFuture[Reply](fmt.Errorf("failed to open %s %s: %w", method, url, err))
	}

	f := newFuture[Reply]()
	t.OnReadyStateChange(func() {
		if t.ReadyState() == Done {
			f.resolve(Reply{StatusCode: t.Status(), ResponseText: t.ResponseText()}, nil)
		}
	})

	if data != nil {
		err = t.SendText(*data)
	} else {
		err = t.Send()
	}
	if err != nil {
		return failedFuture[Reply](fmt.Errorf("failed to send %s %s: %w", method, url, err))
	}
	return f
}

func Get(url string) *Future[Reply] {
	return DefaultClient.Get(url)
}

func Put(url string) *Future[Reply] {
	return DefaultClient.Put(url)
}

func Delete(url string) *Future[Reply] {
	return DefaultClient.Delete(url)
}

func Patch(url, data string) *Future[Reply] {
	return DefaultClient.Patch(url, data)
}

func Post(url, data string) *Future[Reply] {
	return DefaultClient.Post(url, data)
}
