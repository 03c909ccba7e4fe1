package triage

type Vital string

const (
	VitalHeartRate   Vital = "heartRate"
	VitalSpO2        Vital = "spo2"
	VitalSystolicBP  Vital = "systolicBP"
	VitalDiastolicBP Vital = "diastolicBP"
	VitalTemperature Vital = "temperature"
)

// Severity is the display tier of a classified vital.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityCritical Severity = "critical"
	SeverityAbnormal Severity = "abnormal"
	SeverityElevated Severity = "elevated"
	SeverityUnknown  Severity = "unknown"
)

var severityColors = map[Severity]string{
	SeverityNormal:   "text-green-600",
	SeverityCritical: "text-red-800",
	SeverityAbnormal: "text-red-600",
	SeverityElevated: "text-orange-600",
	SeverityUnknown:  "text-gray-600",
}

func (s Severity) Color() string { return severityColors[s] }

type VitalStatus struct {
	Status   string   `json:"status"`
	Severity Severity `json:"severity"`
	Color    string   `json:"color"`
}

func status(label string, sev Severity) VitalStatus {
	return VitalStatus{Status: label, Severity: sev, Color: sev.Color()}
}

// ClassifyVital maps a raw reading to its display band. These bands are for
// display only; ScoreSubject uses its own thresholds.
func ClassifyVital(v Vital, value float64) VitalStatus {
	switch v {
	case VitalHeartRate:
		if value >= 60 && value <= 100 {
			return status("Normal", SeverityNormal)
		}
		if value < 40 || value > 150 {
			return status("Critical", SeverityCritical)
		}
		if value > 100 {
			return status("High", SeverityAbnormal)
		}
		return status("Low", SeverityAbnormal)
	case VitalSpO2:
		if value >= 95 && value <= 100 {
			return status("Normal", SeverityNormal)
		}
		if value < 85 {
			return status("Critical", SeverityCritical)
		}
		if value > 100 {
			return status("Invalid Data", SeverityUnknown)
		}
		return status("Low", SeverityAbnormal)
	case VitalSystolicBP:
		if value >= 100 && value <= 120 {
			return status("Normal", SeverityNormal)
		}
		if value > 180 {
			return status("Critical", SeverityCritical)
		}
		if value > 120 {
			return status("High", SeverityElevated)
		}
		return status("Low", SeverityElevated)
	case VitalDiastolicBP:
		if value >= 60 && value <= 80 {
			return status("Normal", SeverityNormal)
		}
		if value > 110 {
			return status("Critical", SeverityCritical)
		}
		if value > 80 {
			return status("High", SeverityElevated)
		}
		return status("Low", SeverityElevated)
	case VitalTemperature:
		if value >= 36 && value <= 38 {
			return status("Normal", SeverityNormal)
		}
		if value > 39.0 || value < 36.0 {
			return status("Critical", SeverityCritical)
		}
		return status("Abnormal", SeverityAbnormal)
	default:
		return status("Unknown", SeverityUnknown)
	}
}

// ClassifyAll returns the display status of every vital of s.
func ClassifyAll(s SubjectInput) map[Vital]VitalStatus {
	return map[Vital]VitalStatus{
		VitalHeartRate:   ClassifyVital(VitalHeartRate, float64(s.HeartRate)),
		VitalSpO2:        ClassifyVital(VitalSpO2, float64(s.SpO2)),
		VitalSystolicBP:  ClassifyVital(VitalSystolicBP, float64(s.SystolicBP)),
		VitalDiastolicBP: ClassifyVital(VitalDiastolicBP, float64(s.DiastolicBP)),
		VitalTemperature: ClassifyVital(VitalTemperature, s.Temperature),
	}
}
