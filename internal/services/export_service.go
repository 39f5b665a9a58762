package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qingbolan/yearscope/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService writes the computed statistics to report artifacts.
type ExportService struct {
	outputDir string
}

func NewExportService(outputDir string) *ExportService {
	return &ExportService{outputDir: outputDir}
}

// ExportJSON writes the full statistics document as indented JSON.
func (s *ExportService) ExportJSON(stats *models.YearStats, filename string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ExportExcel writes a workbook with Summary, Repositories, Languages and
// Timeline sheets.
func (s *ExportService) ExportExcel(stats *models.YearStats, filename string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeSummarySheet(f, stats); err != nil {
		return "", err
	}
	if err := s.writeRepositoriesSheet(f, stats); err != nil {
		return "", err
	}
	if err := s.writeLanguagesSheet(f, stats); err != nil {
		return "", err
	}
	if err := s.writeTimelineSheet(f, stats); err != nil {
		return "", err
	}

	path := filepath.Join(s.outputDir, filename)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func (s *ExportService) writeSummarySheet(f *excelize.File, stats *models.YearStats) error {
	sheet := "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Username", stats.Profile.Login},
		{"Total contributions", stats.TotalContributions},
		{"Total commits", stats.TotalCommits},
		{"Pull requests", stats.PullRequests},
		{"Reviews", stats.PullRequestReviews},
		{"Issues", stats.Issues},
		{"Longest streak", stats.Streaks.LongestStreak},
		{"Current streak", stats.Streaks.CurrentStreak},
		{"Active days", stats.Streaks.ActiveDays},
		{"Avg per active day", stats.Streaks.AvgPerActiveDay},
		{"Lines added", stats.Summary.LinesAdded},
		{"Lines deleted", stats.Summary.LinesDeleted},
		{"Top repository", stats.Summary.TopRepo},
		{"Peak month", stats.Summary.PeakMonth},
		{"Narrative", stats.Summary.Narrative},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeRepositoriesSheet(f *excelize.File, stats *models.YearStats) error {
	sheet := "Repositories"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Repository", "Commits", "Private", "Organization", "Stars", "Forks", "Language"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, repo := range stats.Repos {
		row := []interface{}{repo.FullName, repo.CommitCount, repo.IsPrivate, repo.IsOrg, repo.Stars, repo.Forks, repo.Language}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeLanguagesSheet(f *excelize.File, stats *models.YearStats) error {
	sheet := "Languages"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Language", "Bytes", "Repositories", "Percentage"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, lang := range stats.Languages {
		row := []interface{}{lang.Name, lang.Size, lang.RepoCount, lang.Percentage}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeTimelineSheet(f *excelize.File, stats *models.YearStats) error {
	sheet := "Timeline"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Date", "Contributions"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, day := range stats.Daily {
		row := []interface{}{day.Date, day.Count}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
