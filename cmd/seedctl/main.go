// Command seedctl - операторские команды: расчет целей, просмотр и сброс
// состояния, выпуск токенов API.
package main

import (
	"os"

	"github.com/besufkad2328-dev/SEED/pkg/utils"
)

func main() {
	defer utils.Log.Sync()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
