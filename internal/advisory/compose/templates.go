package compose

import "loan-advisor/internal/advisory/session"

type template struct {
	message string
	replies []string
}

// quickReplies returns a fresh slice so callers may keep or edit it.
func (t template) quickReplies() []string {
	return append([]string(nil), t.replies...)
}

var loanInquiryText = map[session.Language]template{
	session.Norwegian: {
		message: `Jeg kan hjelpe deg med å finne det beste lånet! 🏦

Basert på din forespørsel kan jeg anbefale:

**Forbrukslån** - For bil, renovering, eller refinansiering
• Renter fra 5.9% (Bank Norwegian)
• Opptil 2 millioner kroner
• Ingen sikkerhet kreves

**Boliglån** - For kjøp av bolig
• Renter fra 3.5%
• Opptil 85% av boligverdi
• Krever egenkapital

Vil du at jeg skal hjelpe deg med å sammenligne alternativer basert på din situasjon?`,
		replies: []string{
			"Sammenlign forbrukslån",
			"Se boliglån",
			"Beregn månedlige avdrag",
			"Hva trenger jeg for å søke?",
		},
	},
	session.English: {
		message: `I can help you find the best loan! 🏦

Based on your inquiry, I can recommend:

**Consumer Loans** - For cars, renovation, or refinancing
• Rates from 5.9% (Bank Norwegian)
• Up to 2 million NOK
• No collateral required

**Mortgage Loans** - For home purchases
• Rates from 3.5%
• Up to 85% of property value
• Requires down payment

Would you like me to help you compare options based on your situation?`,
		replies: []string{
			"Compare consumer loans",
			"View mortgages",
			"Calculate monthly payments",
			"What do I need to apply?",
		},
	},
}

var loanComparisonText = map[session.Language]template{
	session.Norwegian: {
		message: `La meg hjelpe deg med å sammenligne lån! 📊

**Topp 3 anbefalinger for deg:**

🥇 **Bank Norwegian** - 5.9% rente
• Ingen etableringsgebyr
• Rask behandling (24-48 timer)
• Opptil 500.000 kr

🥈 **Nordax Bank** - 6.4% rente
• Fleksible vilkår
• Aksepterer varierende kredittverdighet
• Opptil 600.000 kr

🥉 **Instabank** - 7.1% rente
• Digital søknadsprosess
• Svar på minutter
• Opptil 500.000 kr`,
		replies: []string{
			"Søk hos Bank Norwegian",
			"Se alle detaljer",
			"Beregn mine avdrag",
			"Hva påvirker renten?",
		},
	},
	session.English: {
		message: `Let me help you compare loans! 📊

**Top 3 recommendations for you:**

🥇 **Bank Norwegian** - 5.9% rate
• No establishment fee
• Fast processing (24-48 hours)
• Up to 500,000 NOK

🥈 **Nordax Bank** - 6.4% rate
• Flexible terms
• Accepts varying creditworthiness
• Up to 600,000 NOK

🥉 **Instabank** - 7.1% rate
• Digital application process
• Response in minutes
• Up to 500,000 NOK`,
		replies: []string{
			"Apply at Bank Norwegian",
			"See all details",
			"Calculate my payments",
			"What affects the rate?",
		},
	},
}

var calculationText = map[session.Language]template{
	session.Norwegian: {
		message: `Jeg kan hjelpe deg med å beregne lånekostnader! 🧮

**Lånekalkulator:**
• Månedlige avdrag
• Totalkostnad over låneperioden
• Effektiv rente (inkl. alle gebyrer)
• Sammenligning av ulike scenarier

**Eksempel:**
Lån på 200.000 kr over 5 år:
• Bank Norwegian (5.9%): 3.831 kr/mnd
• Nordax (6.4%): 3.901 kr/mnd
• Forskjell: 4.200 kr over 5 år

Vil du bruke kalkulatoren for dine tall?`,
		replies: []string{
			"Åpne kalkulator",
			"Beregn 300.000 kr",
			"Sammenlign 3 vs 5 år",
			"Hva koster etablering?",
		},
	},
	session.English: {
		message: `I can help you calculate loan costs! 🧮

**Loan Calculator:**
• Monthly payments
• Total cost over loan period
• Effective rate (incl. all fees)
• Comparison of different scenarios

**Example:**
200,000 NOK loan over 5 years:
• Bank Norwegian (5.9%): 3,831 NOK/month
• Nordax (6.4%): 3,901 NOK/month
• Difference: 4,200 NOK over 5 years

Would you like to use the calculator for your numbers?`,
		replies: []string{
			"Open calculator",
			"Calculate 300,000 NOK",
			"Compare 3 vs 5 years",
			"What does setup cost?",
		},
	},
}

var applicationHelpText = map[session.Language]template{
	session.Norwegian: {
		message: `Jeg hjelper deg gjennom søknadsprosessen! 📋

**Dokumenter du trenger:**
✅ Gyldig ID (pass/førerkort)
✅ Siste 3 lønnslipper
✅ Skattemelding (siste år)
✅ Kontoutskrift (siste 3 måneder)
✅ Oversikt over eksisterende gjeld

**Søknadsprosess:**
1. **Forhåndsgodkjenning** (2-24 timer)
2. **Dokumentinnsending** (digitalt)
3. **Kredittvurdering** (1-3 dager)
4. **Endelig godkjenning** (samme dag)
5. **Utbetaling** (1-2 dager)

**Tips for bedre godkjenning:**
• Ha stabil inntekt i 6+ måneder
• Betal ned eksisterende gjeld
• Unngå nye kredittforespørsler`,
		replies: []string{
			"Start søknad nå",
			"Sjekk mine sjanser",
			"Hva hvis jeg blir avslått?",
			"Kan jeg søke flere steder?",
		},
	},
	session.English: {
		message: `I'll guide you through the application process! 📋

**Documents you need:**
✅ Valid ID (passport/driver's license)
✅ Last 3 pay slips
✅ Tax return (last year)
✅ Bank statement (last 3 months)
✅ Overview of existing debt

**Application process:**
1. **Pre-approval** (2-24 hours)
2. **Document submission** (digital)
3. **Credit assessment** (1-3 days)
4. **Final approval** (same day)
5. **Disbursement** (1-2 days)

**Tips for better approval:**
• Have stable income for 6+ months
• Pay down existing debt
• Avoid new credit inquiries`,
		replies: []string{
			"Start application now",
			"Check my chances",
			"What if I get rejected?",
			"Can I apply multiple places?",
		},
	},
}

var generalAdviceText = map[session.Language]template{
	session.Norwegian: {
		message: `Jeg er her for å hjelpe med dine finansielle spørsmål! 💡

**Populære råd:**

**💰 Lånestrategi:**
• Sammenlign alltid flere tilbud
• Fokuser på totalkostnad, ikke bare rente
• Vurder kortere løpetid for å spare renter

**📊 Økonomisk helse:**
• Hold gjeldsgrad under 4x årsinntekt
• Bygg opp bufferkonto (3-6 måneder utgifter)
• Refinansier når renten faller

**🎯 Smart låning:**
• Bruk forbrukslån til verdiskapende investeringer
• Unngå å låne til forbruk du ikke trenger
• Betal ekstra avdrag når du kan

Hva vil du vite mer om?`,
		replies: []string{
			"Refinansieringstips",
			"Hvordan forbedre kredittscore",
			"Gjeldskonsolidering",
			"Spare vs betale ned lån",
		},
	},
	session.English: {
		message: `I'm here to help with your financial questions! 💡

**Popular advice:**

**💰 Loan Strategy:**
• Always compare multiple offers
• Focus on total cost, not just interest rate
• Consider shorter terms to save on interest

**📊 Financial Health:**
• Keep debt ratio under 4x annual income
• Build emergency fund (3-6 months expenses)
• Refinance when rates drop

**🎯 Smart Borrowing:**
• Use consumer loans for value-creating investments
• Avoid borrowing for unnecessary consumption
• Make extra payments when possible

What would you like to know more about?`,
		replies: []string{
			"Refinancing tips",
			"How to improve credit score",
			"Debt consolidation",
			"Save vs pay down loans",
		},
	},
}

var generalText = map[session.Language]template{
	session.Norwegian: {
		message: `Hei! Jeg er FinanceGPT, din personlige finansrådgiver! 👋

Jeg kan hjelpe deg med:
• 🏦 Finne det beste lånet for din situasjon
• 📊 Sammenligne renter og vilkår fra norske banker
• 🧮 Beregne månedlige avdrag og totalkostnader
• 📋 Veilede deg gjennom søknadsprosessen
• 💡 Gi personlige finansielle råd

Hva kan jeg hjelpe deg med i dag?`,
		replies: []string{
			"Jeg trenger et lån",
			"Sammenlign banker",
			"Beregn lånekostnader",
			"Finansielle råd",
		},
	},
	session.English: {
		message: `Hi! I'm FinanceGPT, your personal financial advisor! 👋

I can help you with:
• 🏦 Finding the best loan for your situation
• 📊 Comparing rates and terms from Norwegian banks
• 🧮 Calculating monthly payments and total costs
• 📋 Guiding you through the application process
• 💡 Providing personal financial advice

What can I help you with today?`,
		replies: []string{
			"I need a loan",
			"Compare banks",
			"Calculate loan costs",
			"Financial advice",
		},
	},
}
