package socket

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// shortDir keeps socket paths under the platform length limit
func shortDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "tuo")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

func startServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(shortDir(t), os.Getpid(), zap.NewNop())
	require.NoError(t, err)
	server.Start()
	t.Cleanup(server.Stop)
	return server
}

func TestServerClient(t *testing.T) {
	server := startServer(t)

	client, err := NewClient(server.SocketPath())
	require.NoError(t, err)

	response, err := client.SendAddNode("Test item", "")
	require.NoError(t, err)
	assert.True(t, response.Success, response.Message)
	assert.Equal(t, "Command queued", response.Message)

	select {
	case msg := <-server.Messages():
		assert.Equal(t, CommandAddNode, msg.Command)
		assert.Equal(t, "Test item", msg.Text)
		assert.Equal(t, FormatPlain, msg.Format)
		assert.Nil(t, msg.ResponseChan)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestSearchWaitsForResponse(t *testing.T) {
	server := startServer(t)

	go func() {
		msg := <-server.Messages()
		msg.ResponseChan <- &Response{Success: true, Message: "1 match", Results: []string{msg.Text + "!"}}
	}()

	client, err := NewClient(server.SocketPath())
	require.NoError(t, err)
	response, err := client.SendSearch("milk")
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, []string{"milk!"}, response.Results)
}

func TestInvalidMessages(t *testing.T) {
	server := startServer(t)

	send := func(raw string) Response {
		conn, err := net.Dial("unix", server.SocketPath())
		require.NoError(t, err)
		defer conn.Close()
		_, err = conn.Write([]byte(raw))
		require.NoError(t, err)
		var resp Response
		require.NoError(t, json.NewDecoder(conn).Decode(&resp))
		return resp
	}

	resp := send("{not json\n")
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Invalid message format")

	resp = send(`{"text": "x"}` + "\n")
	assert.Equal(t, "Missing command field", resp.Message)

	resp = send(`{"command": "explode"}` + "\n")
	assert.Equal(t, "Unknown command: explode", resp.Message)
}

func TestFindRunningInstance(t *testing.T) {
	dir := shortDir(t)
	_, _, err := FindRunningInstance(dir)
	assert.ErrorIs(t, err, ErrNoInstance)

	_, _, err = FindRunningInstance(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrNoInstance)

	server, err := NewServer(dir, 4242, zap.NewNop())
	require.NoError(t, err)
	defer server.Stop()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), nil, 0o600))

	path, pid, err := FindRunningInstance(dir)
	require.NoError(t, err)
	assert.Equal(t, server.SocketPath(), path)
	assert.Equal(t, 4242, pid)
}

func TestStopRemovesSocket(t *testing.T) {
	server, err := NewServer(shortDir(t), 7, zap.NewNop())
	require.NoError(t, err)
	server.Start()

	server.Stop()
	server.Stop()

	_, err = os.Stat(server.SocketPath())
	assert.True(t, os.IsNotExist(err))
	_, err = NewClient(server.SocketPath())
	assert.Error(t, err)
}
