package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

// buildPayslipPDF renders a minimal single-page PDF from the stored payslip.
// Good enough for downloads; templating belongs to a reporting service.
func buildPayslipPDF(p EmployeePayslip) ([]byte, error) {
	lines := []string{
		fmt.Sprintf("Payslip %s", p.PayslipNumber),
		fmt.Sprintf("Period: %s to %s", p.PeriodStart.Format("2006-01-02"), p.PeriodEnd.Format("2006-01-02")),
		fmt.Sprintf("Employee: %s", p.EmployeeID),
		"",
		"Earnings",
		fmt.Sprintf("  Basic Salary: %.2f", p.BasicSalary),
		fmt.Sprintf("  HRA: %.2f", p.HRA),
		fmt.Sprintf("  Conveyance Allowance: %.2f", p.ConveyanceAllowance),
		fmt.Sprintf("  Medical Allowance: %.2f", p.MedicalAllowance),
		fmt.Sprintf("  Special Allowance: %.2f", p.SpecialAllowance),
		fmt.Sprintf("  Bonus: %.2f", p.Bonus),
		fmt.Sprintf("  Overtime: %.2f", p.Overtime),
		fmt.Sprintf("  Arrears: %.2f", p.Arrears),
		fmt.Sprintf("  Other Earnings: %.2f", p.OtherEarnings),
		fmt.Sprintf("  Total Earnings: %.2f", p.TotalEarnings),
		"",
		"Deductions",
		fmt.Sprintf("  PF: %.2f", p.PF),
		fmt.Sprintf("  ESI: %.2f", p.ESI),
		fmt.Sprintf("  Professional Tax: %.2f", p.ProfessionalTax),
		fmt.Sprintf("  TDS: %.2f", p.TDS),
		fmt.Sprintf("  Loan Deduction: %.2f", p.LoanDeduction),
		fmt.Sprintf("  Leave Deduction: %.2f", p.LeaveDeduction),
		fmt.Sprintf("  Attendance Deduction: %.2f", p.AttendanceDeduction),
		fmt.Sprintf("  Other Deductions: %.2f", p.OtherDeductions),
		fmt.Sprintf("  Total Deductions: %.2f", p.TotalDeductions),
		"",
		fmt.Sprintf("Payable Days: %s", p.PayableDays),
		fmt.Sprintf("Net Pay: %.2f", p.NetPay),
	}
	return writeSimplePDF(lines)
}

func writeSimplePDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
