package main

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/interleads/radar-cli/internal/model"
)

// writeReportXLSX writes the report as a two-sheet workbook: a summary sheet
// and the keyword table.
func writeReportXLSX(report *model.OpportunityReport, path string) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Resumo")
	if err != nil {
		return eris.Wrap(err, "xlsx: add summary sheet")
	}
	addPair := func(label string, value interface{}) {
		row := summary.AddRow()
		row.AddCell().Value = label
		switch v := value.(type) {
		case string:
			row.AddCell().Value = v
		case int:
			row.AddCell().SetInt(v)
		}
	}
	addPair("Segmento", report.Niche)
	addPair("Cidade", report.City.Name)
	addPair("Nota", string(report.Grade))
	addPair("Volume do termo principal", report.PrimaryKeywordVolume)
	addPair("Volume total mensal", report.TotalVolume)
	addPair("Palavras-chave", report.KeywordCount)
	addPair("Volume anual estimado", report.AnnualVolume)

	keywords, err := f.AddSheet("Palavras-chave")
	if err != nil {
		return eris.Wrap(err, "xlsx: add keywords sheet")
	}
	header := keywords.AddRow()
	for _, h := range []string{"Palavra-chave", "Volume mensal", "CPC (R$)", "Concorrência"} {
		header.AddCell().Value = h
	}
	for _, kw := range report.Keywords {
		row := keywords.AddRow()
		row.AddCell().Value = kw.Keyword
		row.AddCell().SetInt(kw.SearchVolume)
		row.AddCell().SetFloat(kw.CPC)
		row.AddCell().Value = string(kw.Competition)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "xlsx: save report")
	}
	return nil
}
