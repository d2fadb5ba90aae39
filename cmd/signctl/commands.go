package main

import (
	"context"
	"esign-backend/db"
	"esign-backend/initializers"
	courtprovider "esign-backend/lib/dicts/court"
	courtstore "esign-backend/lib/dicts/court/store"
	"esign-backend/lib/events"
	requeststore "esign-backend/lib/request/store"
	signaturestore "esign-backend/lib/signature/store"
	"esign-backend/lib/signing"
	signqueue "esign-backend/lib/signing/queue"
	"esign-backend/lib/users"
	userstore "esign-backend/lib/users/store"
	authutils "esign-backend/lib/utils/auth-utils"
	"esign-backend/models"
	dictapimodels "esign-backend/models/api/dict"
	requestapimodels "esign-backend/models/api/request"
	userapimodels "esign-backend/models/api/user"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "jobs", Short: "Задачи очереди подписания"}
	cmd.AddCommand(jobsListCmd())
	cmd.AddCommand(jobsCancelCmd())
	return cmd
}

func jobsListCmd() *cobra.Command {
	var status string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список задач",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := signqueue.NewInstance(db.DB).List(models.JobStatus(status), limit)
			if err != nil {
				return err
			}
			views := make([]requestapimodels.JobView, 0, len(list))
			for _, rec := range list {
				views = append(views, requestapimodels.JobConvert(rec))
			}
			if jsonOutput {
				return printJSON(os.Stdout, views)
			}
			renderJobs(os.Stdout, views)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "статус (pending, running, done, failed, cancelled)")
	cmd.Flags().IntVar(&limit, "limit", 50, "количество записей")
	return cmd
}

func jobsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <jobID>",
		Short: "Отмена ожидающей задачи, заявка возвращается на подписание",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := signing.NewInstance(
				requeststore.NewInstance(db.DB),
				signqueue.NewInstance(db.DB),
				signaturestore.NewInstance(db.DB),
				courtstore.NewInstance(db.DB),
				signing.GormTx(db.DB),
				events.NewPgNotify(db.DB))
			if err := handler.CancelJob(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "задача %s отменена\n", args[0])
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Сверка зависших заявок (один проход)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := initializers.NewReconciler(events.NewPgNotify(db.DB)).Sweep(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(os.Stdout, report)
			}
			renderSweep(os.Stdout, report)
			return nil
		},
	}
}

func courtsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "courts", Short: "Справочник судов"}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Добавление суда",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := courtprovider.NewInstance(courtstore.NewInstance(db.DB)).Create(dictapimodels.CourtData{Name: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, id)
			return nil
		},
	})
	var name string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Список судов",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := courtprovider.NewInstance(courtstore.NewInstance(db.DB)).List(name)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(os.Stdout, list)
			}
			renderCourts(os.Stdout, list)
			return nil
		},
	}
	listCmd.Flags().StringVar(&name, "name", "", "поиск по названию")
	cmd.AddCommand(listCmd)
	return cmd
}

func usersHandler() users.Provider {
	return users.NewInstance(userstore.NewInstance(db.DB), courtstore.NewInstance(db.DB), authutils.GetToken)
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Пользователи"}

	var data userapimodels.UserData
	var role string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Добавление пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			data.Role = models.UserRole(role)
			id, err := usersHandler().Create(data)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, id)
			return nil
		},
	}
	addCmd.Flags().StringVar(&data.Name, "name", "", "имя")
	addCmd.Flags().StringVar(&data.Email, "email", "", "email")
	addCmd.Flags().StringVar(&role, "role", string(models.UserRoleReader), "роль (reader, officer, admin)")
	addCmd.Flags().StringVar(&data.CourtID, "court", "", "ИД суда подписанта")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("email")
	cmd.AddCommand(addCmd)

	var listRole string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Список пользователей",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := usersHandler().List(models.UserRole(listRole))
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(os.Stdout, list)
			}
			renderUsers(os.Stdout, list)
			return nil
		},
	}
	listCmd.Flags().StringVar(&listRole, "role", "", "фильтр по роли")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "token <email>",
		Short: "Выпуск токена доступа",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := usersHandler().Token(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, token)
			return nil
		},
	})
	return cmd
}
