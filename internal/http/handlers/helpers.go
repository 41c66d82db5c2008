package handlers

import (
	"io"
)

// writeSSEData форматирует и отправляет SSE данные с поддержкой UTF-8.
func writeSSEData(w io.Writer, data string) (int, error) {
	if data == "" {
		return 0, nil
	}

	n, err := io.WriteString(w, "data: "+data+"\n\n")
	if err != nil {
		return 0, err
	}

	return n, nil
}

// writeSSEEvent форматирует и отправляет SSE событие с типом.
func writeSSEEvent(w io.Writer, eventType, data string) (int, error) {
	totalWritten := 0

	n, err := io.WriteString(w, "event: "+eventType+"\n")
	if err != nil {
		return totalWritten, err
	}
	totalWritten += n

	n, err = writeSSEData(w, data)
	if err != nil {
		return totalWritten, err
	}
	totalWritten += n

	return totalWritten, nil
}
