package service

import "github.com/Rrens/legal-assistant/internal/domain"

// DefaultDocuments is the seed set installed when the persisted slot is empty or unreadable
func DefaultDocuments() []domain.LegalDocument {
	return []domain.LegalDocument{
		{
			ID:      "sentencia_1",
			Title:   "Sentencia de Amparo 123/2023",
			Summary: "Resolución sobre un caso de amparo indirecto y debido proceso.",
			Content: `SENTENCIA DE AMPARO 123/2023. VISTO para resolver el juicio de amparo indirecto promovido por Juan Pérez en contra de actos del Juez Quinto de lo Civil. RESULTANDO: 1. El quejoso señala como acto reclamado la orden de desalojo dictada en el expediente 456/2022 sin haber sido oído y vencido en juicio. 2. La autoridad responsable rindió su informe justificando su actuar en la supuesta rebeldía del demandado. CONSIDERANDO: PRIMERO. Este juzgado es competente para conocer del presente juicio. SEGUNDO. Del análisis de las constancias, se advierte que el quejoso no fue debidamente emplazado al juicio de origen, violando en su perjuicio la garantía de audiencia prevista en el artículo 14 Constitucional. TERCERO. Al no haber sido emplazado, no tuvo oportunidad de ofrecer pruebas ni de formular alegatos, lo que constituye una violación procesal grave que amerita la reposición del procedimiento. RESUELVE: ÚNICO. La Justicia de la Unión AMPARA Y PROTEGE a Juan Pérez en contra del acto reclamado, para el efecto de que la autoridad responsable deje insubsistente todo lo actuado a partir del auto de admisión y ordene reponer el procedimiento para que se emplace debidamente al quejoso.`,
		},
		{
			ID:      "contrato_2",
			Title:   "Contrato de Arrendamiento 789",
			Summary: "Contrato de alquiler de inmueble para uso habitacional.",
			Content: `CONTRATO DE ARRENDAMIENTO que celebran, por una parte, como ARRENDADOR, la Sra. Ana García, y por la otra, como ARRENDATARIO, el Sr. Carlos López, respecto del inmueble ubicado en Calle Falsa 123. CLÁUSULAS: PRIMERA. El objeto del contrato es el arrendamiento del inmueble mencionado para uso exclusivo de casa habitación. SEGUNDA. La renta mensual será de $10,000.00 (diez mil pesos 00/100 M.N.), pagaderos los primeros cinco días de cada mes. TERCERA. El ARRENDATARIO entrega en este acto la cantidad de $10,000.00 como depósito en garantía, el cual será devuelto al finalizar el contrato, siempre y cuando no existan adeudos ni daños al inmueble. CUARTA. Son causas de rescisión del contrato la falta de pago de dos o más rentas consecutivas, el subarrendar el inmueble o darle un uso distinto al convenido. QUINTA. Las reparaciones mayores correrán a cargo del ARRENDADOR, mientras que el mantenimiento menor derivado del uso será responsabilidad del ARRENDATARIO.`,
		},
		{
			ID:      "laudo_3",
			Title:   "Laudo Laboral 45/2024",
			Summary: "Resolución de un conflicto laboral por despido injustificado.",
			Content: `LAUDO. Expediente 45/2024. Actor: María Rodríguez. Demandado: Empresa XYZ, S.A. de C.V. Se resuelve la controversia sobre el despido del que fue objeto la actora. RESULTANDOS: 1. La parte actora reclamó el pago de indemnización constitucional, salarios caídos, vacaciones y aguinaldo, argumentando un despido injustificado. 2. La parte demandada negó el despido, aduciendo que la trabajadora abandonó sus labores. CONSIDERANDOS: PRIMERO. La carga de la prueba sobre la causa de terminación de la relación laboral recae en el patrón. SEGUNDO. La demandada no ofreció pruebas suficientes para acreditar el supuesto abandono de empleo. En cambio, la actora presentó testigos que corroboran la existencia del despido. TERCERO. Al no justificar la causa del despido, este se considera injustificado. RESOLUTIVOS: PRIMERO. Se condena a la empresa XYZ, S.A. de C.V. a pagar a María Rodríguez la indemnización constitucional equivalente a tres meses de salario. SEGUNDO. Se condena al pago de salarios caídos desde la fecha del despido hasta la fecha de cumplimiento de este laudo. TERCERO. Se absuelve del pago de vacaciones por haberse acreditado su goce.`,
		},
	}
}
