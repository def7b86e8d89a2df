// wallectl - command line client for the walled daemon
//
// Usage:
//
//	wallectl [-server host:port] routines
//	wallectl [-server host:port] status
//	wallectl [-server host:port] dance <name>
//	wallectl [-server host:port] stop
//	wallectl [-server host:port] servo <channel> <angle>
//	wallectl [-server host:port] watch
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

func main() {
	server := flag.String("server", "localhost:8000", "walled address (host:port)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	baseURL := "http://" + *server
	var err error
	switch args[0] {
	case "routines":
		err = get(baseURL + "/api/dance/routines")
	case "status":
		err = get(baseURL + "/api/dance/status")
	case "dance":
		if len(args) < 2 {
			usage()
		}
		err = post(baseURL+"/api/dance/"+args[1], nil)
	case "stop":
		err = post(baseURL+"/api/dance/stop", nil)
	case "servo":
		if len(args) < 3 {
			usage()
		}
		err = setServo(baseURL, args[1], args[2])
	case "watch":
		err = watch(*server)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: wallectl [-server host:port] routines|status|dance <name>|stop|servo <ch> <angle>|watch")
	os.Exit(2)
}

func get(url string) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return dump(resp)
}

func post(url string, body []byte) error {
	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return dump(resp)
}

func setServo(baseURL, channel, angle string) error {
	ch, err := strconv.Atoi(channel)
	if err != nil {
		return fmt.Errorf("channel must be an integer: %q", channel)
	}
	a, err := strconv.ParseFloat(angle, 64)
	if err != nil {
		return fmt.Errorf("angle must be a number: %q", angle)
	}
	body := []byte(fmt.Sprintf(`{"channel":%d,"angle":%g}`, ch, a))
	return post(baseURL+"/api/servo", body)
}

func dump(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

// watch streams status snapshots from /ws/status until interrupted.
func watch(server string) error {
	u := url.URL{Scheme: "ws", Host: server, Path: "/ws/status"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		os.Exit(0)
	}()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", u.String())
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		fmt.Println(string(msg))
	}
}
