package main

import (
	"encoding/json"
	"esign-backend/lib/signing"
	dictapimodels "esign-backend/models/api/dict"
	requestapimodels "esign-backend/models/api/request"
	userapimodels "esign-backend/models/api/user"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

const timeFormat = "02.01.2006 15:04:05"

func printJSON(w io.Writer, value interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(timeFormat)
}

func renderJobs(w io.Writer, list []requestapimodels.JobView) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Заявка", "Статус", "Попыток", "Создана", "Завершена", "Ошибка"})
	for _, job := range list {
		tw.AppendRow(table.Row{job.ID, job.RequestID, job.Status, job.Attempts,
			job.CreatedAt.Format(timeFormat), formatTime(job.FinishedAt), job.Error})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", "Всего", len(list)})
	tw.Render()
}

func renderSweep(w io.Writer, report signing.SweepReport) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Просроченные задачи", "Возвращенные заявки"})
	tw.AppendRow(table.Row{strings.Join(report.ExpiredJobs, "\n"), strings.Join(report.Reverted, "\n")})
	tw.AppendFooter(table.Row{len(report.ExpiredJobs), len(report.Reverted)})
	tw.Render()
}

func renderCourts(w io.Writer, list []dictapimodels.CourtView) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Название"})
	for _, court := range list {
		tw.AppendRow(table.Row{court.ID, court.Name})
	}
	tw.Render()
}

func renderUsers(w io.Writer, list []userapimodels.UserView) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Имя", "Email", "Роль", "Статус", "Суд"})
	for _, user := range list {
		tw.AppendRow(table.Row{user.ID, user.Name, user.Email, user.Role, user.Status, user.CourtID})
	}
	tw.Render()
}
