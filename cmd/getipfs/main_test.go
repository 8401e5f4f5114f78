package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ruteri/getipfs/ambient"
	"github.com/ruteri/getipfs/getipfs"
	"github.com/ruteri/getipfs/httpserver"
	"github.com/ruteri/getipfs/interfaces"
	"github.com/ruteri/getipfs/ipfsclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCID = "QmUNLLsPACCz1vLxQVkXqqLX5R1X345qqfHbsf67hvA3Nn"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddContent(t *testing.T) {
	client := new(ipfsclient.MockClient)
	client.On("Add", mock.Anything, mock.Anything).Return(testCID, nil).Once()

	var out bytes.Buffer
	err := addContent(context.Background(), client, strings.NewReader("hello"), &out)
	require.NoError(t, err)
	assert.Equal(t, testCID+"\n", out.String())

	client.On("Add", mock.Anything, mock.Anything).Return("", errors.New("disk full")).Once()
	out.Reset()
	err = addContent(context.Background(), client, strings.NewReader("hello"), &out)
	assert.Error(t, err)
	assert.Empty(t, out.String())

	client.AssertExpectations(t)
}

func TestCatContent(t *testing.T) {
	client := new(ipfsclient.MockClient)
	client.On("Cat", mock.Anything, "/ipfs/"+testCID+"/readme").
		Return(io.NopCloser(strings.NewReader("hello, world!")), nil)

	var out bytes.Buffer
	require.NoError(t, catContent(context.Background(), client, "/ipfs/"+testCID+"/readme", &out))
	assert.Equal(t, "hello, world!", out.String())
}

func TestListLinks(t *testing.T) {
	client := new(ipfsclient.MockClient)
	client.On("Ls", mock.Anything, testCID).Return([]interfaces.Link{
		{Name: "readme", Hash: "QmReadme", Size: 12, Type: 2},
		{Name: "docs", Hash: "QmDocs", Size: 4, Type: 1},
	}, nil)

	var out bytes.Buffer
	require.NoError(t, listLinks(context.Background(), client, testCID, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"QmReadme", "12", "readme"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"QmDocs", "4", "docs"}, strings.Fields(lines[1]))
}

func TestResolveAtStartup_HonoursCancellation(t *testing.T) {
	resolver := getipfs.NewResolver(ambient.NewMapRoot(), discardLogger())
	handler := httpserver.NewHandler(resolver, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := resolveAtStartup(ctx, handler, discardLogger())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, handler.Current())
}

func TestResolveAtStartup_UsesInjectedClient(t *testing.T) {
	client := new(ipfsclient.MockClient)
	root := ambient.NewMapRoot()
	root.Set(interfaces.WindowPath, client)

	resolver := getipfs.NewResolver(root, discardLogger())
	opts := &getipfs.Options{
		TryCompanion: getipfs.Bool(false),
		TryAPI:       getipfs.Bool(false),
		ConnectionTest: func(ctx context.Context, c interfaces.IPFSClient) error {
			return nil
		},
	}
	handler := httpserver.NewHandler(resolver, opts, discardLogger())

	require.NoError(t, resolveAtStartup(context.Background(), handler, discardLogger()))
	require.NotNil(t, handler.Current())
	assert.Equal(t, interfaces.ProviderWindow, handler.Current().Provider)
}
