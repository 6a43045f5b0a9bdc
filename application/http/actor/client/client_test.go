package client

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"http-req/application/http"
	"http-req/application/util/rule"
	"http-req/application/util/uri"
	iolib "http-req/lib/io"
	"http-req/session/tls"
	"http-req/transport"
	"http-req/transport/pipe"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type ClientTestSuite struct {
	suite.Suite

	transport *pipe.Transport
	listener  *pipe.Listener

	wg sync.WaitGroup
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.transport = pipe.NewTransport(clock.New())

	lis, err := s.transport.Listen(transport.Addr{Host: "example.com", Port: 80})
	s.Require().NoError(err)
	s.listener = lis
}

func (s *ClientTestSuite) TearDownTest() {
	defer goleak.VerifyNone(s.T())
	_ = s.listener.Close()
	s.wg.Wait()
}

// serve accepts one connection, reads the request head and hands over to respond.
// The received head is sent on the returned channel.
func (s *ClientTestSuite) serve(respond func(conn transport.Conn, r *iolib.UntilReader)) <-chan string {
	received := make(chan string, 1)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		conn, err := s.listener.Accept(context.Background())
		if err != nil {
			return
		}
		defer conn.Close()

		r := iolib.NewUntilReader(conn)
		head, err := r.ReadUntil(rule.HeadDelimiter)
		received <- string(head)
		if err != nil {
			return
		}

		respond(conn, r)
	}()

	return received
}

func reply(raw string) func(conn transport.Conn, r *iolib.UntilReader) {
	return func(conn transport.Conn, r *iolib.UntilReader) {
		_, _ = iolib.WriteFull(conn, []byte(raw))
	}
}

func (s *ClientTestSuite) request(raw string) *Request {
	return NewRequest(uri.MustParse(raw)).Dialer(s.transport)
}

func (s *ClientTestSuite) TestGetContentLength() {
	received := s.serve(reply("" +
		"HTTP/1.1 200 OK\r\n" +
		"Date: Sat, 11 Jan 2003 02:44:04 GMT\r\n" +
		"Content-Type: text/html\r\n" +
		"Content-Length: 27\r\n" +
		"\r\n" +
		"<html>hello</html>\r\n\r\nhello"))

	var sink bytes.Buffer
	res, err := s.request("http://example.com/path?q=1").Send(context.Background(), &sink)
	s.Require().NoError(err)

	s.Equal(http.StatusOK, res.StatusCode())
	s.Equal("OK", res.Reason())
	s.Equal("HTTP/1.1", res.Version())
	s.Equal("<html>hello</html>\r\n\r\nhello", sink.String())

	s.Equal(""+
		"GET /path?q=1 HTTP/1.1\r\n"+
		"Host: example.com\r\n"+
		"Referer: http://example.com/path?q=1\r\n"+
		"Connection: Close\r\n"+
		"\r\n", <-received)
}

func (s *ClientTestSuite) TestBodyArrivesInPieces() {
	s.serve(func(conn transport.Conn, _ *iolib.UntilReader) {
		for _, piece := range []string{"HTTP/1.1 200 OK\r\nContent-", "Length: 10\r\n\r", "\n0123", "456", "789"} {
			if _, err := conn.Write([]byte(piece)); err != nil {
				return
			}
		}
	})

	var sink bytes.Buffer
	res, err := s.request("http://example.com/").Send(context.Background(), &sink)
	s.Require().NoError(err)

	n, ok := res.ContentLen()
	s.True(ok)
	s.Equal(uint(10), n)
	s.Equal("0123456789", sink.String())
}

func (s *ClientTestSuite) TestCloseDelimitedBody() {
	s.serve(func(conn transport.Conn, _ *iolib.UntilReader) {
		_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nfirst,"))
		_, _ = conn.Write([]byte("second"))
	})

	var sink bytes.Buffer
	res, err := s.request("http://example.com/").Send(context.Background(), &sink)
	s.Require().NoError(err)

	_, ok := res.ContentLen()
	s.False(ok)
	s.Equal("first,second", sink.String())
}

func (s *ClientTestSuite) TestMalformedContentLengthFallsBackToClose() {
	s.serve(reply("HTTP/1.1 200 OK\r\nContent-Length: ten\r\n\r\nall of it"))

	var sink bytes.Buffer
	_, err := s.request("http://example.com/").Send(context.Background(), &sink)
	s.Require().NoError(err)
	s.Equal("all of it", sink.String())
}

func (s *ClientTestSuite) TestTruncatedBody() {
	s.serve(reply("HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\nabc"))

	var sink bytes.Buffer
	res, err := s.request("http://example.com/").Send(context.Background(), &sink)
	s.ErrorIs(err, http.ErrTruncatedBody)
	s.ErrorIs(err, http.ErrFraming)
	s.Nil(res)
	s.Equal("abc", sink.String())
}

func (s *ClientTestSuite) TestHeadDoesNotWaitForBody() {
	released := make(chan struct{})
	s.serve(func(conn transport.Conn, r *iolib.UntilReader) {
		_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 100\r\n\r\n"))
		// Hold the connection open until the client is done.
		<-released
	})
	defer close(released)

	res, err := s.request("http://example.com/").Method(http.MethodHead).Send(context.Background(), nil)
	s.Require().NoError(err)

	n, ok := res.ContentLen()
	s.True(ok)
	s.Equal(uint(100), n)
}

func (s *ClientTestSuite) TestNoContent() {
	released := make(chan struct{})
	s.serve(func(conn transport.Conn, r *iolib.UntilReader) {
		_, _ = conn.Write([]byte("HTTP/1.1 204 No Content\r\n\r\n"))
		<-released
	})
	defer close(released)

	res, err := s.request("http://example.com/").Send(context.Background(), nil)
	s.Require().NoError(err)
	s.Equal(http.StatusNoContent, res.StatusCode())
}

func (s *ClientTestSuite) TestPostBody() {
	body := make(chan string, 1)
	received := s.serve(func(conn transport.Conn, r *iolib.UntilReader) {
		b := make([]byte, 7)
		if _, err := io.ReadFull(r, b); err != nil {
			body <- err.Error()
			return
		}
		body <- string(b)
		_, _ = conn.Write([]byte("HTTP/1.1 201 Created\r\nContent-Length: 0\r\n\r\n"))
	})

	res, err := s.request("http://example.com/items").
		Method(http.MethodPost).
		Header("Content-Type", "application/json").
		Body([]byte(`{"a":1}`)).
		Send(context.Background(), nil)
	s.Require().NoError(err)
	s.Equal(http.StatusCreated, res.StatusCode())

	head := <-received
	s.True(strings.HasPrefix(head, "POST /items HTTP/1.1\r\n"), head)
	s.Contains(head, "Content-Type: application/json\r\n")
	s.Contains(head, "Content-Length: 7\r\n")
	s.Equal(`{"a":1}`, <-body)
}

func (s *ClientTestSuite) TestReadTimeout() {
	released := make(chan struct{})
	s.serve(func(conn transport.Conn, r *iolib.UntilReader) { <-released })
	defer close(released)

	_, err := s.request("http://example.com/").ReadTimeout(time.Nanosecond).Send(context.Background(), nil)
	s.Require().Error(err)
	s.True(IsTimeout(err), err.Error())
}

func (s *ClientTestSuite) TestWriteTimeout() {
	released := make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		conn, err := s.listener.Accept(context.Background())
		if err != nil {
			return
		}
		defer conn.Close()
		// Never reads.
		<-released
	}()
	defer close(released)

	_, err := s.request("http://example.com/").WriteTimeout(time.Nanosecond).Send(context.Background(), nil)
	s.Require().Error(err)
	s.True(IsTimeout(err), err.Error())
}

type blockingDialer struct{}

func (blockingDialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *ClientTestSuite) TestConnectTimeout() {
	_, err := s.request("http://example.com/").
		Dialer(blockingDialer{}).
		ConnectTimeout(time.Nanosecond).
		Send(context.Background(), nil)
	s.Require().Error(err)
	s.True(IsTimeout(err), err.Error())
}

func (s *ClientTestSuite) TestContextCanceledWhileReading() {
	released := make(chan struct{})
	s.serve(func(conn transport.Conn, r *iolib.UntilReader) { <-released })
	defer close(released)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := s.request("http://example.com/").Send(ctx, nil)
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *ClientTestSuite) TestContextCanceledDuringCloseDelimitedBody() {
	released := make(chan struct{})
	s.serve(func(conn transport.Conn, _ *iolib.UntilReader) {
		_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\npartial"))
		<-released
	})
	defer close(released)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var sink bytes.Buffer
	res, err := s.request("http://example.com/").Send(ctx, &sink)
	s.Require().Error(err)
	s.Nil(res)
	s.ErrorIs(err, context.DeadlineExceeded)
	s.True(IsTimeout(err))
}

func (s *ClientTestSuite) TestContextCanceledKeepsCause() {
	released := make(chan struct{})
	s.serve(func(conn transport.Conn, _ *iolib.UntilReader) {
		_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\nabc"))
		<-released
	})
	defer close(released)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)
	defer cancel()

	_, err := s.request("http://example.com/").Send(ctx, nil)
	s.ErrorIs(err, context.Canceled)
	s.ErrorIs(err, http.ErrTruncatedBody)
	s.ErrorIs(err, http.ErrFraming)
}

func (s *ClientTestSuite) TestFraming() {
	testcases := []struct {
		desc    string
		reply   string
		maxHead uint
		wantErr error
	}{
		{desc: "nothing", reply: "", wantErr: http.ErrEmptyResponse},
		{desc: "no delimiter", reply: "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n", wantErr: http.ErrMissingHeadDelimiter},
		{desc: "head too long", reply: "HTTP/1.1 200 OK\r\nX-Padding: " + strings.Repeat("a", 64) + "\r\n\r\n", maxHead: 32, wantErr: http.ErrHeadTooLong},
	}
	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			s.serve(reply(tc.reply))

			req := s.request("http://example.com/")
			if tc.maxHead > 0 {
				req.MaxHeadLength(tc.maxHead)
			}

			_, err := req.Send(context.Background(), nil)
			s.ErrorIs(err, tc.wantErr)
			s.ErrorIs(err, http.ErrFraming)
			s.wg.Wait()
		})
	}
}

func (s *ClientTestSuite) TestMalformedStatusLine() {
	s.serve(reply("HTTP/1.1 OK\r\n\r\n"))

	_, err := s.request("http://example.com/").Send(context.Background(), nil)
	s.ErrorIs(err, http.ErrParse)
}

func (s *ClientTestSuite) TestUnreachable() {
	_, err := s.request("http://example.com:8080/").Send(context.Background(), nil)
	s.ErrorIs(err, transport.ErrConnRefused)
}

func (s *ClientTestSuite) TestRejectsNonHTTP() {
	_, err := s.request("mailto:John.Doe@example.com").Send(context.Background(), nil)
	s.ErrorIs(err, ErrUnsupportedScheme)

	_, err = s.request("http:/relative/only").Send(context.Background(), nil)
	s.ErrorIs(err, ErrNoHost)
}

type recordingConnector struct {
	hostname string
	err      error
}

func (c *recordingConnector) Connect(ctx context.Context, hostname string, conn transport.Conn) (transport.Conn, error) {
	c.hostname = hostname
	if c.err != nil {
		return nil, c.err
	}
	return conn, nil
}

func (s *ClientTestSuite) TestHTTPSUsesConnector() {
	lis, err := s.transport.Listen(transport.Addr{Host: "example.com", Port: 443})
	s.Require().NoError(err)
	s.listener.Close()
	s.listener = lis

	s.serve(reply("HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"))

	connector := &recordingConnector{}
	var sink bytes.Buffer
	_, err = s.request("https://example.com/").Connector(connector).Send(context.Background(), &sink)
	s.Require().NoError(err)

	s.Equal("example.com", connector.hostname)
	s.Equal("ok", sink.String())
}

func (s *ClientTestSuite) TestHTTPSConnectorFailure() {
	lis, err := s.transport.Listen(transport.Addr{Host: "example.com", Port: 443})
	s.Require().NoError(err)
	defer lis.Close()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if conn, err := lis.Accept(context.Background()); err == nil {
			conn.Close()
		}
	}()

	connector := &recordingConnector{err: &tls.Error{Op: "handshake"}}
	_, err = s.request("https://example.com/").Connector(connector).Send(context.Background(), nil)
	s.ErrorIs(err, tls.ErrTLS)
}

func (s *ClientTestSuite) TestBuilderSendOnStream() {
	c1, c2 := pipe.Pair(clock.New())
	defer c1.Close()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer c2.Close()

		r := iolib.NewUntilReader(c2)
		if _, err := r.ReadUntil(rule.HeadDelimiter); err != nil {
			return
		}
		_, _ = c2.Write([]byte("HTTP/1.1 404 Not Found\r\nContent-Length: 4\r\n\r\nnope"))
	}()

	var sink bytes.Buffer
	res, err := NewRequestBuilder(uri.MustParse("http://example.com/missing")).Send(c1, &sink)
	s.Require().NoError(err)
	s.True(res.StatusCode().IsClientErr())
	s.Equal("nope", sink.String())
}
