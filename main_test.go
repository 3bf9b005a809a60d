package main

import (
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/configs"
	notificationService "restaurantops_backend/internals/features/home/notifications/service"
)

func TestBuildDispatcherFallsBackToLog(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	cfg := configs.Config{AMQPURL: "amqp://guest:guest@" + addr + "/", NotifyQueue: "evaluation_notifications"}

	d, closeFn := buildDispatcher(cfg, nil, log)
	defer closeFn()

	multi, ok := d.(notificationService.Multi)
	require.True(t, ok)
	require.Len(t, multi, 1)
	require.IsType(t, notificationService.Log{}, multi[0])
	require.Contains(t, buf.String(), "RabbitMQ unavailable")

	require.NoError(t, d.Dispatch(context.Background(), notificationService.Notification{
		Kind:        "evaluation_assigned",
		RecipientID: uuid.New(),
	}))
}
