// birdctl — консольный клиент сервиса птиц
// list и add ходят в REST-ресурс /birds, seed работает напрямую с хранилищем
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
