package main

import (
	"esign-backend/config"
	"esign-backend/db"
	"esign-backend/initializers"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "signctl",
	Short: "Обслуживание сервиса подписания",
	Long: `signctl работает напрямую с базой сервиса (настройки из config.yml и переменных окружения).
Команды: просмотр и отмена задач очереди, сверка зависших заявок, справочник судов, пользователи.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.InitConfig()
		params := initializers.DBParams(false)
		params.Debug = false
		params.MaxOpenConns = 2
		return db.Connect(params)
	},
}

var jsonOutput bool

func main() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в json")
	rootCmd.AddCommand(jobsCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(courtsCmd())
	rootCmd.AddCommand(usersCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка:", err)
		os.Exit(1)
	}
}
