package conversation

import (
	"fmt"
	"strings"
)

const intentPromptTemplate = `You are an intelligent medical appointment booking assistant. Analyze the following user message and extract relevant information.

User Message: %q

Extract and return in JSON format:
{
    "intent": "book_appointment | check_symptoms | ask_availability | provide_info | confirm | cancel",
    "specialty": "extracted medical specialty or null",
    "symptoms": "list of symptoms mentioned or null",
    "date_preference": "preferred date/day or null",
    "time_preference": "preferred time or null",
    "doctor_preference": "doctor name, or the number of a listed option, or null",
    "consultation_type": "video or in-person or null",
    "patient_info": {
        "name": "patient name or null",
        "email": "email or null",
        "phone": "phone or null"
    },
    "urgency": "urgent | normal | flexible",
    "additional_info": "any other relevant information"
}

Important: Return ONLY valid JSON, no additional text.`

const specialtyPromptTemplate = `Based on these symptoms: %q

Suggest the MOST appropriate medical specialty from this list:
%s

Return only the specialty name, nothing else.`

func intentPrompt(message string) string {
	return fmt.Sprintf(intentPromptTemplate, message)
}

func specialtyPrompt(symptoms string, specialties []string) string {
	return fmt.Sprintf(specialtyPromptTemplate, symptoms, strings.Join(specialties, ", "))
}
