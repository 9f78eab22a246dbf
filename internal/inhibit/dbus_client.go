package inhibit

import (
	"github.com/godbus/dbus/v5"
)

// DBusClient defines the D-Bus operations the inhibitor needs.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/artshow/internal/inhibit DBusClient
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// Call invokes a method on a remote object and returns the reply body
	// dest: The bus name (e.g., "org.freedesktop.ScreenSaver")
	// path: The object path (e.g., "/org/freedesktop/ScreenSaver")
	// method: The fully qualified method (e.g., "org.freedesktop.ScreenSaver.Inhibit")
	Call(dest string, path dbus.ObjectPath, method string, args ...interface{}) ([]interface{}, error)
}

// StdDBusClient is the real implementation using godbus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient opens a private connection to the session bus
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// Call invokes method on the object at path owned by dest
func (c *StdDBusClient) Call(dest string, path dbus.ObjectPath, method string, args ...interface{}) ([]interface{}, error) {
	call := c.conn.Object(dest, path).Call(method, 0, args...)
	return call.Body, call.Err
}
